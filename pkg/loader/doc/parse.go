package doc

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

var errNoDocumentXML = errors.New("word/document.xml not found in docx")

// parseDocx returns the visible text of a docx body. Paragraphs are
// separated by a blank line so the chunker can split on them; table rows
// become one line with tab separated cells. Tracked deletions are skipped.
func parseDocx(content []byte) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("failed to open docx: %w", err)
	}

	var docFile *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return nil, errNoDocumentXML
	}
	if docFile.UncompressedSize64 > docXMLMax {
		return nil, fmt.Errorf("document.xml too large: %d bytes", docFile.UncompressedSize64)
	}

	rc, err := docFile.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open document.xml: %w", err)
	}
	defer rc.Close()

	return extractText(xml.NewDecoder(io.LimitReader(rc, docXMLMax)))
}

func extractText(dec *xml.Decoder) ([]byte, error) {
	var (
		paragraphs []string
		para       strings.Builder
		cells      []string
		rows       []string
		inText     bool
		delDepth   int
		tblDepth   int
	)

	endParagraph := func() {
		text := strings.TrimSpace(para.String())
		para.Reset()
		switch {
		case text == "":
		case tblDepth > 0:
			cells = append(cells, text)
		default:
			paragraphs = append(paragraphs, text)
		}
	}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse XML: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "del":
				delDepth++
			case "t":
				inText = true
			case "tab":
				if delDepth == 0 {
					para.WriteByte(' ')
				}
			case "br", "cr":
				if delDepth == 0 {
					para.WriteByte('\n')
				}
			case "noBreakHyphen":
				if delDepth == 0 {
					para.WriteByte('-')
				}
			case "tbl":
				tblDepth++
			}

		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "del":
				delDepth = max(delDepth-1, 0)
			case "p":
				endParagraph()
			case "tr":
				if len(cells) > 0 {
					rows = append(rows, strings.Join(cells, "\t"))
				}
				cells = cells[:0]
			case "tbl":
				tblDepth = max(tblDepth-1, 0)
				if tblDepth == 0 && len(rows) > 0 {
					paragraphs = append(paragraphs, strings.Join(rows, "\n"))
					rows = rows[:0]
				}
			}

		case xml.CharData:
			if delDepth == 0 && inText {
				para.Write(t)
			}
		}
	}

	if len(paragraphs) == 0 {
		return []byte{}, nil
	}
	return []byte(strings.Join(paragraphs, "\n\n") + "\n"), nil
}
