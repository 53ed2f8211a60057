package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/themis/project"
)

type ReportJSONEncoder struct {
	w io.Writer
}

func NewReportJSONEncoder(w io.Writer) *ReportJSONEncoder {
	return &ReportJSONEncoder{w: w}
}

func (e *ReportJSONEncoder) Encode(r *project.Report) error {
	text, err := e.MarshalText(r)
	if err != nil {
		return err
	}
	_, err = e.w.Write(append(text, '\n'))
	return err
}

func (e *ReportJSONEncoder) MarshalText(r *project.Report) ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// ReportLineEncoder writes a report as tab separated records:
//
//	summary	<files>	<classes>	<lines>	<unresolved names>
//	diagnostic	<file>:<line>	fatal|warning	<message>
//	unresolved	<name>	<file>:<line>
type ReportLineEncoder struct {
	w io.Writer
}

func NewReportLineEncoder(w io.Writer) *ReportLineEncoder {
	return &ReportLineEncoder{w: w}
}

func (e *ReportLineEncoder) Encode(r *project.Report) error {
	text, err := e.MarshalText(r)
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *ReportLineEncoder) MarshalText(r *project.Report) ([]byte, error) {
	var sb strings.Builder
	if r.Error != "" {
		fmt.Fprintf(&sb, "error\t%s\n", r.Error)
	}
	fmt.Fprintf(&sb, "summary\t%d\t%d\t%d\t%d\n", r.Files, r.Classes, r.Lines, len(r.Unresolved))
	for _, d := range r.Diagnostics {
		severity := "warning"
		if d.Fatal {
			severity = "fatal"
		}
		fmt.Fprintf(&sb, "diagnostic\t%s:%d\t%s\t%s\n", d.File, d.Line, severity, d.Message)
	}
	for _, u := range r.Unresolved {
		for _, site := range u.Sites {
			fmt.Fprintf(&sb, "unresolved\t%s\t%s:%d\n", u.Name, site.File, site.Line)
		}
	}
	return []byte(sb.String()), nil
}
