package main

import (
	"fmt"
	"path/filepath"

	"github.com/dhamidi/themis/project"
	"github.com/spf13/cobra"
)

func newProjectCmd(flags *globalFlags) *cobra.Command {
	var showFiles bool

	cmd := &cobra.Command{
		Use:   "project [dir]",
		Short: "Show project structure",
		Long:  `Display the modules and packages discovered from the project's POM files.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			cfg, err := flags.setup(dir)
			if err != nil {
				return err
			}
			return runProject(dir, cfg.ProjectOptions(), showFiles)
		},
	}

	cmd.Flags().BoolVar(&showFiles, "files", false, "list the source files of each package")

	return cmd
}

func runProject(dir string, opts project.Options, showFiles bool) error {
	proj, err := project.Load(dir, opts)
	if err != nil {
		return err
	}

	fmt.Printf("Root:    %s\n", proj.Root)
	if proj.POM != nil {
		fmt.Printf("Project: %s\n", proj.POM.Coordinates())
	}
	if proj.Err != nil {
		return fmt.Errorf("load %s: %w", proj.Root, proj.Err)
	}
	fmt.Printf("\nModules:\n")

	for _, mod := range proj.Modules {
		fmt.Printf("  %s\n", mod.Name)
		fmt.Printf("    src: %s\n", mod.SrcDir)

		files := 0
		for _, pkg := range mod.Packages {
			files += len(pkg.Paths)
		}
		fmt.Printf("    packages: %d, files: %d\n", len(mod.Packages), files)

		for _, pkg := range mod.Packages {
			name := pkg.Name
			if name == "" {
				name = "(unnamed)"
			}
			fmt.Printf("      %s (%d)\n", name, len(pkg.Paths))
			if !showFiles {
				continue
			}
			for _, path := range pkg.Paths {
				fmt.Printf("        %s\n", filepath.Base(path))
			}
		}
	}

	return nil
}
