// Package kml reads KML placemarks into geometries and writes feature
// collections back as KML documents.
package kml

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

// Shape is the raw text of one KML geometry element.
type Shape struct {
	// Coordinates of a Point or LineString, or the outer ring of a Polygon.
	Coordinates string
	// Inner rings of a Polygon.
	Inner []string
}

// Placemark is a parsed KML Placemark: its non-geometry child values and
// its raw geometry elements.
type Placemark struct {
	Properties map[string]string

	Point      *Shape
	LineString *Shape
	Polygon    *Shape

	// Members of a MultiGeometry, grouped by element name.
	MultiPoints      []Shape
	MultiLineStrings []Shape
	MultiPolygons    []Shape
}

type xmlCoordinates struct {
	Coordinates string `xml:"coordinates"`
}

type xmlPolygon struct {
	Outer xmlCoordinates   `xml:"outerBoundaryIs>LinearRing"`
	Inner []xmlCoordinates `xml:"innerBoundaryIs>LinearRing"`
}

type xmlMultiGeometry struct {
	Points      []xmlCoordinates `xml:"Point"`
	LineStrings []xmlCoordinates `xml:"LineString"`
	Polygons    []xmlPolygon     `xml:"Polygon"`
}

type xmlData struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value"`
}

type xmlNode struct {
	XMLName xml.Name
	Text    string `xml:",chardata"`
}

type xmlPlacemark struct {
	Point         *xmlCoordinates   `xml:"Point"`
	LineString    *xmlCoordinates   `xml:"LineString"`
	Polygon       *xmlPolygon       `xml:"Polygon"`
	MultiGeometry *xmlMultiGeometry `xml:"MultiGeometry"`
	ExtendedData  []xmlData         `xml:"ExtendedData>Data"`
	Children      []xmlNode         `xml:",any"`
}

// Parse extracts every Placemark of a KML document, wherever it is nested.
// Elements are matched by local name, so any KML namespace is accepted.
func Parse(data []byte) ([]Placemark, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charset.NewReaderLabel

	placemarks := []Placemark{}
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "Placemark" {
			continue
		}

		var raw xmlPlacemark
		if err := dec.DecodeElement(&raw, &start); err != nil {
			return nil, err
		}
		placemarks = append(placemarks, raw.record())
	}
	return placemarks, nil
}

func (p *xmlPlacemark) record() Placemark {
	pm := Placemark{Properties: map[string]string{}}

	for _, c := range p.Children {
		if text := strings.TrimSpace(c.Text); text != "" {
			pm.Properties[c.XMLName.Local] = text
		}
	}
	for _, d := range p.ExtendedData {
		if value := strings.TrimSpace(d.Value); d.Name != "" && value != "" {
			pm.Properties[d.Name] = value
		}
	}

	if p.Point != nil {
		pm.Point = &Shape{Coordinates: p.Point.Coordinates}
	}
	if p.LineString != nil {
		pm.LineString = &Shape{Coordinates: p.LineString.Coordinates}
	}
	if p.Polygon != nil {
		s := p.Polygon.shape()
		pm.Polygon = &s
	}
	if m := p.MultiGeometry; m != nil {
		for _, c := range m.Points {
			pm.MultiPoints = append(pm.MultiPoints, Shape{Coordinates: c.Coordinates})
		}
		for _, c := range m.LineStrings {
			pm.MultiLineStrings = append(pm.MultiLineStrings, Shape{Coordinates: c.Coordinates})
		}
		for _, poly := range m.Polygons {
			pm.MultiPolygons = append(pm.MultiPolygons, poly.shape())
		}
	}
	return pm
}

func (p *xmlPolygon) shape() Shape {
	s := Shape{Coordinates: p.Outer.Coordinates}
	for _, r := range p.Inner {
		s.Inner = append(s.Inner, r.Coordinates)
	}
	return s
}
