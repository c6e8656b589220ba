package preset

import (
	"encoding/xml"
	"fmt"
	"os"
	"time"

	mcperrors "github.com/ajitpratap0/voicemeeter-mcp-go/pkg/errors"
)

// Wire form of the vendor XML preset document.
type xmlPreset struct {
	XMLName   xml.Name      `xml:"voicemeeter_preset"`
	Metadata  xmlMetadata   `xml:"metadata"`
	Strips    []xmlStrip    `xml:"strips>strip"`
	Buses     []xmlBus      `xml:"buses>bus"`
	Scenarios []xmlScenario `xml:"scenarios>scenario"`
}

type xmlMetadata struct {
	Name            string   `xml:"name"`
	Description     string   `xml:"description"`
	Version         string   `xml:"version"`
	Created         string   `xml:"created"`
	Author          string   `xml:"author,omitempty"`
	VoicemeeterType string   `xml:"voicemeeter_type,omitempty"`
	Tags            []string `xml:"tags>tag,omitempty"`
}

type xmlStrip struct {
	ID     int        `xml:"id,attr"`
	Params []xmlParam `xml:"param"`
}

type xmlBus struct {
	ID     int        `xml:"id,attr"`
	Params []xmlParam `xml:"param"`
}

type xmlScenario struct {
	Name        string     `xml:"name,attr"`
	Description string     `xml:"description"`
	Params      []xmlParam `xml:"params>param"`
}

type xmlParam struct {
	Name  string `xml:"name,attr"`
	Value string `xml:",chardata"`
}

// DecodeXML parses a vendor XML preset document.
func DecodeXML(data []byte) (*Preset, error) {
	var doc xmlPreset
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, mcperrors.ValidationErrorf("invalid XML preset: %v", err)
	}
	if doc.Metadata.Name == "" && doc.Metadata.Created == "" {
		return nil, mcperrors.ValidationError("XML preset is missing its metadata section")
	}

	p := &Preset{
		Metadata: Metadata{
			Name:            doc.Metadata.Name,
			Description:     doc.Metadata.Description,
			Version:         doc.Metadata.Version,
			Created:         doc.Metadata.Created,
			Author:          doc.Metadata.Author,
			VoicemeeterType: doc.Metadata.VoicemeeterType,
			Tags:            doc.Metadata.Tags,
		},
	}
	if p.Metadata.Version == "" {
		p.Metadata.Version = "1.0"
	}
	if p.Metadata.Created == "" {
		p.Metadata.Created = time.Now().Format(time.RFC3339)
	}

	for _, strip := range doc.Strips {
		p.Strips = append(p.Strips, Strip{
			ID:         strip.ID,
			Parameters: convertXMLParams(strip.Params),
		})
	}
	for _, bus := range doc.Buses {
		p.Buses = append(p.Buses, Bus{
			ID:         bus.ID,
			Parameters: convertXMLParams(bus.Params),
		})
	}
	for _, scenario := range doc.Scenarios {
		p.Scenarios = append(p.Scenarios, Scenario{
			Name:        scenario.Name,
			Description: scenario.Description,
			Parameters:  convertXMLParams(scenario.Params),
		})
	}

	if err := p.Seal(); err != nil {
		return nil, fmt.Errorf("checksum failed: %w", err)
	}
	return p, nil
}

func convertXMLParams(params []xmlParam) []Parameter {
	out := make([]Parameter, 0, len(params))
	for _, param := range params {
		if param.Name == "" {
			continue
		}
		out = append(out, Parameter{
			Name:  param.Name,
			Value: ParseValue(param.Value),
		})
	}
	return out
}

// EncodeXML renders the preset as a vendor XML document.
func EncodeXML(p *Preset) ([]byte, error) {
	doc := xmlPreset{
		Metadata: xmlMetadata{
			Name:            p.Metadata.Name,
			Description:     p.Metadata.Description,
			Version:         p.Metadata.Version,
			Created:         p.Metadata.Created,
			Author:          p.Metadata.Author,
			VoicemeeterType: p.Metadata.VoicemeeterType,
			Tags:            p.Metadata.Tags,
		},
	}

	for _, strip := range p.Strips {
		doc.Strips = append(doc.Strips, xmlStrip{
			ID:     strip.ID,
			Params: convertModelParams(strip.Parameters),
		})
	}
	for _, bus := range p.Buses {
		doc.Buses = append(doc.Buses, xmlBus{
			ID:     bus.ID,
			Params: convertModelParams(bus.Parameters),
		})
	}
	for _, scenario := range p.Scenarios {
		doc.Scenarios = append(doc.Scenarios, xmlScenario{
			Name:        scenario.Name,
			Description: scenario.Description,
			Params:      convertModelParams(scenario.Parameters),
		})
	}

	body, err := xml.MarshalIndent(&doc, "", "    ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), append(body, '\n')...), nil
}

func convertModelParams(params []Parameter) []xmlParam {
	out := make([]xmlParam, 0, len(params))
	for _, param := range params {
		out = append(out, xmlParam{Name: param.Name, Value: param.Value.String()})
	}
	return out
}

// LoadXMLFile reads and parses an XML preset from disk.
func LoadXMLFile(path string) (*Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, mcperrors.ValidationErrorf("cannot read preset file %s: %v", path, err)
	}
	return DecodeXML(data)
}

// SaveXMLFile writes the preset to disk as vendor XML.
func SaveXMLFile(p *Preset, path string) error {
	data, err := EncodeXML(p)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
