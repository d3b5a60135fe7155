package ingest

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

type Extraction struct {
	Text      string
	Format    string
	Supported bool
}

type extractor func(path string) (string, error)

var extractors = map[string]extractor{
	".txt":  parseTXT,
	".pdf":  parsePDF,
	".docx": parseDOCXFile,
}

// Extract reads the text of the document at path. An extension without an
// extractor yields Supported=false and a nil error.
func Extract(path string) (Extraction, error) {
	ext := strings.ToLower(filepath.Ext(path))
	fn, ok := extractors[ext]
	if !ok {
		return Extraction{Format: ext}, nil
	}
	text, err := fn(path)
	if err != nil {
		return Extraction{Format: ext, Supported: true}, fmt.Errorf("extract %s: %w", ext, err)
	}
	return Extraction{Text: text, Format: ext, Supported: true}, nil
}

// SupportedFormats lists the extensions Extract can read.
func SupportedFormats() []string {
	return []string{".txt", ".pdf", ".docx"}
}

func parseTXT(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	return strings.ToValidUTF8(string(raw), "�"), nil
}

func parseDOCXFile(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	return parseDOCX(raw)
}

func parseDOCX(raw []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", fmt.Errorf("open docx zip: %w", err)
	}

	var xmlData []byte
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			rc, openErr := f.Open()
			if openErr != nil {
				return "", fmt.Errorf("open document.xml: %w", openErr)
			}
			xmlData, err = io.ReadAll(rc)
			rc.Close()
			if err != nil {
				return "", fmt.Errorf("read document.xml: %w", err)
			}
			break
		}
	}
	if len(xmlData) == 0 {
		return "", fmt.Errorf("word/document.xml not found")
	}

	decoder := xml.NewDecoder(bytes.NewReader(xmlData))
	var b strings.Builder
	inText := false
	paragraphs := 0
	for {
		tok, tokenErr := decoder.Token()
		if tokenErr == io.EOF {
			break
		}
		if tokenErr != nil {
			return "", fmt.Errorf("decode document.xml: %w", tokenErr)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "p":
				// one line per paragraph, empty ones included
				if paragraphs > 0 {
					b.WriteString("\n")
				}
				paragraphs++
			}
		case xml.EndElement:
			if t.Name.Local == "t" {
				inText = false
			}
		case xml.CharData:
			if inText {
				b.WriteString(string(t))
			}
		}
	}
	return b.String(), nil
}

// parsePDF concatenates the plain text of every page. Pages that fail to
// decode are skipped; a PDF without a text layer yields "".
func parsePDF(path string) (text string, err error) {
	// the pdf reader panics on some malformed object streams
	defer func() {
		if rec := recover(); rec != nil {
			text, err = "", fmt.Errorf("parse pdf: %v", rec)
		}
	}()
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	var b strings.Builder
	total := r.NumPage()
	for i := 1; i <= total; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		content, pageErr := p.GetPlainText(nil)
		if pageErr != nil {
			continue
		}
		b.WriteString(content)
	}
	return b.String(), nil
}
