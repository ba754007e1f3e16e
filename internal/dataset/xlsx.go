package dataset

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ReadXLSXFile loads one worksheet of a .xlsx workbook. The first row is the
// header. If sheetName is empty the sheet is chosen by sheetIndex (1-based,
// defaulting to the first sheet).
func ReadXLSXFile(path, sheetName string, sheetIndex int, opt ReadOptions) (*Dataset, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read xlsx: %w", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	sheets := parseWorkbook(readZipFile(zr, "xl/workbook.xml"))
	rels := parseRelationships(readZipFile(zr, "xl/_rels/workbook.xml.rels"))

	target, err := resolveSheet(sheets, rels, sheetName, sheetIndex)
	if err != nil {
		return nil, fmt.Errorf("%w in workbook %q", err, filepath.Base(path))
	}
	sheetXML := readZipFile(zr, target)
	if sheetXML == nil {
		return nil, fmt.Errorf("read xlsx: missing worksheet %s", target)
	}
	rr := newSheetRowReader(sheetXML, parseSharedStrings(readZipFile(zr, "xl/sharedStrings.xml")))
	header, ok := rr.Next()
	if !ok || len(header) == 0 {
		return New()
	}
	bld := newBuilder(header, opt)
	for {
		if opt.MaxRows > 0 && bld.rows >= opt.MaxRows {
			break
		}
		row, ok := rr.Next()
		if !ok {
			break
		}
		bld.add(row)
	}
	return bld.build()
}

// SheetNames lists the worksheet names of a workbook in order.
func SheetNames(path string) ([]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read xlsx: %w", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	var out []string
	for _, s := range parseWorkbook(readZipFile(zr, "xl/workbook.xml")) {
		out = append(out, s.Name)
	}
	return out, nil
}

func resolveSheet(sheets []wbSheet, rels map[string]string, sheetName string, sheetIndex int) (string, error) {
	if sheetName != "" {
		for _, s := range sheets {
			if strings.EqualFold(s.Name, sheetName) {
				if rel, ok := rels[s.RID]; ok {
					return normalizeRelPath(rel), nil
				}
				break
			}
		}
		names := make([]string, len(sheets))
		for i, s := range sheets {
			names[i] = s.Name
		}
		return "", fmt.Errorf("sheet %q not found (available: %s)", sheetName, strings.Join(names, ", "))
	}
	idx := sheetIndex
	if idx <= 0 {
		idx = 1
	}
	for _, s := range sheets {
		if s.SheetID == idx {
			if rel, ok := rels[s.RID]; ok {
				return normalizeRelPath(rel), nil
			}
		}
	}
	// Guess by convention when the workbook metadata is incomplete.
	return filepath.Join("xl", "worksheets", fmt.Sprintf("sheet%d.xml", idx)), nil
}

type wbSheet struct {
	Name    string
	SheetID int
	RID     string
}

func parseWorkbook(data []byte) []wbSheet {
	if len(data) == 0 {
		return nil
	}
	dec := xml.NewDecoder(bytes.NewReader(data))
	var sheets []wbSheet
	for {
		tok, err := dec.Token()
		if err != nil {
			return sheets
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "sheet" {
			continue
		}
		var s wbSheet
		for _, a := range se.Attr {
			switch a.Name.Local {
			case "name":
				s.Name = a.Value
			case "sheetId":
				s.SheetID = atoiSafe(a.Value)
			case "id":
				s.RID = a.Value // r: namespace
			}
		}
		sheets = append(sheets, s)
	}
}

// parseRelationships maps r:id to Target.
func parseRelationships(data []byte) map[string]string {
	out := map[string]string{}
	if len(data) == 0 {
		return out
	}
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err != nil {
			return out
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "Relationship" {
			continue
		}
		var id, target string
		for _, a := range se.Attr {
			switch a.Name.Local {
			case "Id":
				id = a.Value
			case "Target":
				target = a.Value
			}
		}
		if id != "" && target != "" {
			out[id] = target
		}
	}
}

func readZipFile(zr *zip.Reader, name string) []byte {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil
		}
		defer rc.Close()
		b, _ := io.ReadAll(rc)
		return b
	}
	return nil
}

func parseSharedStrings(data []byte) []string {
	if len(data) == 0 {
		return nil
	}
	dec := xml.NewDecoder(bytes.NewReader(data))
	var out []string
	var buf strings.Builder
	var inT bool
	for {
		tok, err := dec.Token()
		if err != nil {
			return out
		}
		switch se := tok.(type) {
		case xml.StartElement:
			switch se.Name.Local {
			case "si":
				buf.Reset()
			case "t":
				inT = true
			}
		case xml.EndElement:
			switch se.Name.Local {
			case "t":
				inT = false
			case "si":
				out = append(out, buf.String())
				buf.Reset()
			}
		case xml.CharData:
			if inT {
				buf.Write(se)
			}
		}
	}
}

// sheetRowReader streams rows of a worksheet as string records.
type sheetRowReader struct {
	dec    *xml.Decoder
	shared []string
	inRow  bool
	curRow []string
	maxCol int
}

func newSheetRowReader(data []byte, shared []string) *sheetRowReader {
	return &sheetRowReader{dec: xml.NewDecoder(bytes.NewReader(data)), shared: shared}
}

func (r *sheetRowReader) Next() ([]string, bool) {
	for {
		tok, err := r.dec.Token()
		if err != nil {
			return nil, false
		}
		switch se := tok.(type) {
		case xml.StartElement:
			if se.Name.Local == "row" {
				r.inRow = true
				r.curRow = nil
				r.maxCol = 0
			}
			if r.inRow && se.Name.Local == "c" {
				var ref, typ string
				for _, a := range se.Attr {
					switch a.Name.Local {
					case "r":
						ref = a.Value
					case "t":
						typ = a.Value
					}
				}
				col := colIndexFromRef(ref)
				if col < 0 {
					col = len(r.curRow)
				}
				if col+1 > r.maxCol {
					r.maxCol = col + 1
				}
				val := r.readCellValue(typ)
				if len(r.curRow) <= col {
					tmp := make([]string, col+1)
					copy(tmp, r.curRow)
					r.curRow = tmp
				}
				r.curRow[col] = val
			}
		case xml.EndElement:
			if se.Name.Local == "row" {
				if len(r.curRow) < r.maxCol {
					tmp := make([]string, r.maxCol)
					copy(tmp, r.curRow)
					r.curRow = tmp
				}
				r.inRow = false
				return r.curRow, true
			}
		}
	}
}

// readCellValue consumes tokens up to </c>, capturing <v> or <is><t>.
func (r *sheetRowReader) readCellValue(typ string) string {
	var val string
	for {
		tok, err := r.dec.Token()
		if err != nil {
			return val
		}
		switch se := tok.(type) {
		case xml.StartElement:
			if se.Name.Local == "v" || se.Name.Local == "t" {
				var sb strings.Builder
				for {
					tk, er := r.dec.Token()
					if er != nil {
						break
					}
					if ed, ok := tk.(xml.EndElement); ok && (ed.Name.Local == "v" || ed.Name.Local == "t") {
						break
					}
					if ch, ok := tk.(xml.CharData); ok {
						sb.Write(ch)
					}
				}
				val = sb.String()
			}
		case xml.EndElement:
			if se.Name.Local != "c" {
				continue
			}
			if typ == "s" {
				idx := atoiSafe(val)
				if idx >= 0 && idx < len(r.shared) {
					return r.shared[idx]
				}
				return ""
			}
			return val
		}
	}
}

// colIndexFromRef turns "C12" into 2. A ref without letters yields -1.
func colIndexFromRef(ref string) int {
	i := 0
	for i < len(ref) {
		c := ref[i]
		if c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' {
			i++
			continue
		}
		break
	}
	s := strings.ToUpper(ref[:i])
	idx := 0
	for j := 0; j < len(s); j++ {
		idx = idx*26 + int(s[j]-'A'+1)
	}
	return idx - 1
}

func atoiSafe(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			break
		}
		n = n*10 + int(c-'0')
	}
	return n
}

// normalizeRelPath converts relationship Target paths to ZIP entry names.
// Targets may carry a leading slash ("/xl/worksheets/sheet1.xml") but ZIP
// entries never do.
func normalizeRelPath(rel string) string {
	rel = strings.TrimPrefix(rel, "/")
	if strings.HasPrefix(rel, "xl/") {
		return rel
	}
	return filepath.Join("xl", rel)
}
