package parser

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jared-makes-stuff/NTU-Public-APIs/model"
	"golang.org/x/net/html"
)

// Option is one <select> choice.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// RadioOption is one radio button of a group.
type RadioOption struct {
	Value   string `json:"value"`
	Label   string `json:"label"`
	Checked bool   `json:"checked"`
}

// SelectOptions returns the options of the <select> named field, in document
// order. Options with an empty value are placeholders and are skipped.
func SelectOptions(page, field string) []Option {
	doc, ok := newDocument(page)
	if !ok {
		return []Option{}
	}

	options := []Option{}
	doc.Find(fmt.Sprintf("select[name=%q] option", field)).Each(func(_ int, opt *goquery.Selection) {
		value := strings.TrimSpace(opt.AttrOr("value", ""))
		if value == "" {
			return
		}
		options = append(options, Option{Value: value, Label: normalize(opt.Text())})
	})
	return options
}

// RadioOptions returns the radio inputs named field, in document order.
func RadioOptions(page, field string) []RadioOption {
	doc, ok := newDocument(page)
	if !ok {
		return []RadioOption{}
	}

	options := []RadioOption{}
	radios(doc.Selection, field).Each(func(_ int, input *goquery.Selection) {
		_, checked := input.Attr("checked")
		options = append(options, RadioOption{
			Value:   strings.TrimSpace(input.AttrOr("value", "")),
			Label:   radioLabel(input),
			Checked: checked,
		})
	})
	return options
}

// ParseSemesters reads the semester <select> named field into descriptors.
// Options whose value isn't a semester identifier are ignored.
func ParseSemesters(page, field string) []model.SemesterDescriptor {
	semesters := []model.SemesterDescriptor{}
	for _, opt := range SelectOptions(page, field) {
		acadsem, err := model.ParseAcadsem(opt.Value)
		if err != nil {
			continue
		}
		semesters = append(semesters, model.SemesterDescriptor{
			Year:     acadsem.Year,
			Semester: acadsem.Semester,
			Label:    opt.Label,
			Value:    acadsem.String(),
		})
	}
	return semesters
}

// radios finds <input type=radio name=field>. The portal writes the type
// attribute in either case.
func radios(root *goquery.Selection, field string) *goquery.Selection {
	return root.Find(fmt.Sprintf("input[name=%q]", field)).FilterFunction(func(_ int, s *goquery.Selection) bool {
		return strings.EqualFold(s.AttrOr("type", ""), "radio")
	})
}

// radioLabel is the text that follows a radio up to the next form control.
// When a radio sits alone inside its own element (a <label> or <td>), the
// element's text is used instead.
func radioLabel(input *goquery.Selection) string {
	if len(input.Nodes) == 0 {
		return ""
	}

	var b strings.Builder
	for n := input.Nodes[0].NextSibling; n != nil; n = n.NextSibling {
		if n.Type == html.ElementNode && isControl(n.Data) {
			break
		}
		b.WriteString(nodeText(n))
	}
	if label := normalize(b.String()); label != "" {
		return label
	}

	parent := input.Parent()
	if parent.Find("input").Length() == 1 {
		return normalize(parent.Text())
	}
	return ""
}

func isControl(tag string) bool {
	switch tag {
	case "input", "select", "textarea", "br", "button":
		return true
	}
	return false
}

func nodeText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(nodeText(c))
	}
	return b.String()
}
