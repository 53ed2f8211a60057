// Package pom reads the Maven project descriptors that lay out a source
// tree into modules.
package pom

import "encoding/xml"

type Project struct {
	XMLName      xml.Name     `xml:"project"`
	ModelVersion string       `xml:"modelVersion"`
	GroupID      string       `xml:"groupId"`
	ArtifactID   string       `xml:"artifactId"`
	Version      string       `xml:"version"`
	Packaging    string       `xml:"packaging"`
	Name         string       `xml:"name"`
	Parent       *Parent      `xml:"parent"`
	Modules      []string     `xml:"modules>module"`
	Properties   *Properties  `xml:"properties"`
	Dependencies []Dependency `xml:"dependencies>dependency"`

	// Path is the absolute path of the file the project was read from.
	Path string `xml:"-"`
}

// Coordinates returns groupId:artifactId:version.
func (p *Project) Coordinates() string {
	return p.GroupID + ":" + p.ArtifactID + ":" + p.Version
}

// IsAggregator reports whether the project only lists child modules.
func (p *Project) IsAggregator() bool {
	return p.Packaging == "pom" || len(p.Modules) > 0
}

type Parent struct {
	GroupID      string `xml:"groupId"`
	ArtifactID   string `xml:"artifactId"`
	Version      string `xml:"version"`
	RelativePath string `xml:"relativePath"`
}

func (p *Parent) Coordinates() string {
	return p.GroupID + ":" + p.ArtifactID + ":" + p.Version
}

type Properties struct {
	Entries map[string]string
}

func (p *Properties) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	p.Entries = make(map[string]string)
	for {
		token, err := d.Token()
		if err != nil {
			return err
		}
		switch t := token.(type) {
		case xml.StartElement:
			var value string
			if err := d.DecodeElement(&value, &t); err != nil {
				return err
			}
			p.Entries[t.Name.Local] = value
		case xml.EndElement:
			if t.Name == start.Name {
				return nil
			}
		}
	}
}

type Dependency struct {
	GroupID    string `xml:"groupId"`
	ArtifactID string `xml:"artifactId"`
	Version    string `xml:"version"`
	Scope      string `xml:"scope"`
	Optional   string `xml:"optional"`
}
