package codebase

import (
	"errors"

	"github.com/dhamidi/themis/java/parser"
	"github.com/dhamidi/themis/project"
)

func diagnosticOf(path string, err error) project.Diagnostic {
	d := project.Diagnostic{File: path, Message: err.Error(), Fatal: true}
	var pe *parser.ParseError
	if errors.As(err, &pe) {
		d.Line, d.Message = pe.Line, pe.Err.Error()
	}
	return d
}
