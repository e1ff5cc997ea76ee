package reports

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/robinvdvleuten/accounts/ledger"
)

// Form receives field values for one fillable PDF form.
type Form interface {
	SetValue(field, value string) error
	SetCheckBox(field string, checked bool) error
	// Save writes the filled-in form.
	Save() error
	Close() error
}

// FormFactory opens a form for the template at templatePath that will be
// saved to outputPath.
type FormFactory interface {
	Create(templatePath, outputPath string) (Form, error)
}

// FormFactoryFunc adapts a function to FormFactory.
type FormFactoryFunc func(templatePath, outputPath string) (Form, error)

func (f FormFactoryFunc) Create(templatePath, outputPath string) (Form, error) {
	return f(templatePath, outputPath)
}

// setMoney writes m, leaving the field blank for zero.
func setMoney(form Form, field string, m ledger.Money) error {
	return form.SetValue(field, m.FormattedString())
}

// setMoneyPreserveZero writes m, printing 0.00 for zero.
func setMoneyPreserveZero(form Form, field string, m ledger.Money) error {
	return form.SetValue(field, m.FormattedStringPreserveZero())
}

// fieldWriter collects the first error from a run of form writes so the
// field layouts below read as plain lists of assignments.
type fieldWriter struct {
	form Form
	err  error
}

func (w *fieldWriter) value(field, value string) {
	if w.err == nil {
		w.err = w.form.SetValue(field, value)
	}
}

func (w *fieldWriter) money(field string, m ledger.Money) {
	if w.err == nil {
		w.err = setMoney(w.form, field, m)
	}
}

func (w *fieldWriter) moneyPreserveZero(field string, m ledger.Money) {
	if w.err == nil {
		w.err = setMoneyPreserveZero(w.form, field, m)
	}
}

func (w *fieldWriter) checkBox(field string, checked bool) {
	if w.err == nil {
		w.err = w.form.SetCheckBox(field, checked)
	}
}

// XFDF writes form data as an XFDF document next to the month's files.
// Opening the XFDF file in a PDF reader fills the referenced template.
type XFDF struct {
	template string
	output   string
	fields   []xfdfField
	index    map[string]int
}

// XFDFFactory creates XFDF forms. The template must be readable.
var XFDFFactory FormFactory = FormFactoryFunc(NewXFDF)

func NewXFDF(templatePath, outputPath string) (Form, error) {
	if templatePath == "" {
		return nil, errors.New("no form template configured")
	}
	f, err := os.Open(templatePath)
	if err != nil {
		return nil, fmt.Errorf("input file %s cannot be read: %w", templatePath, err)
	}
	f.Close()
	return &XFDF{template: templatePath, output: outputPath, index: make(map[string]int)}, nil
}

type xfdfDocument struct {
	XMLName xml.Name    `xml:"http://ns.adobe.com/xfdf/ xfdf"`
	File    xfdfFile    `xml:"f"`
	Fields  []xfdfField `xml:"fields>field"`
}

type xfdfFile struct {
	Href string `xml:"href,attr"`
}

type xfdfField struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value"`
}

func (x *XFDF) set(field, value string) {
	if i, ok := x.index[field]; ok {
		x.fields[i].Value = value
		return
	}
	x.index[field] = len(x.fields)
	x.fields = append(x.fields, xfdfField{Name: field, Value: value})
}

func (x *XFDF) SetValue(field, value string) error {
	x.set(field, value)
	return nil
}

func (x *XFDF) SetCheckBox(field string, checked bool) error {
	if checked {
		x.set(field, "Yes")
	} else {
		x.set(field, "Off")
	}
	return nil
}

// Save writes the document, keeping a previous output as <output>.bak.
func (x *XFDF) Save() error {
	href, err := filepath.Abs(x.template)
	if err != nil {
		href = x.template
	}
	data, err := xml.MarshalIndent(xfdfDocument{
		File:   xfdfFile{Href: href},
		Fields: x.fields,
	}, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(x.output), 0o755); err != nil {
		return err
	}
	if _, err := os.Stat(x.output); err == nil {
		if err := os.Rename(x.output, x.output+".bak"); err != nil {
			return err
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(x.output, append([]byte(xml.Header), append(data, '\n')...), 0o644)
}

func (x *XFDF) Close() error { return nil }
