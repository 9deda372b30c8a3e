// Package export serializes device records as CSV for download.
package export

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/muurk/meshinv/internal/inventory"
)

const (
	// Filename is the fixed name offered for the downloaded file
	Filename = "devices.csv"

	// ContentType is the MIME type of the export
	ContentType = "text/csv"

	// Header is the first line of every export
	Header = "IP,MAC,Vendor,Type,Hostname,LastSeen"
)

var lineBreaks = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

// CSV renders records one per line in input order, after the header line.
// Lines are joined with "\n" and there is no trailing newline. The vendor is
// always quoted; LastSeen is the raw epoch value.
func CSV(records []inventory.Record) []byte {
	var buf bytes.Buffer
	buf.WriteString(Header)
	for _, r := range records {
		buf.WriteByte('\n')
		writeLine(&buf, r)
	}
	return buf.Bytes()
}

func writeLine(buf *bytes.Buffer, r inventory.Record) {
	buf.WriteString(field(r.IP))
	buf.WriteByte(',')
	buf.WriteString(field(r.MAC))
	buf.WriteByte(',')
	buf.WriteString(quoted(r.Vendor))
	buf.WriteByte(',')
	buf.WriteString(r.Category().String())
	buf.WriteByte(',')
	buf.WriteString(field(r.Hostname))
	buf.WriteByte(',')
	buf.WriteString(LastSeen(r))
}

// LastSeen returns the record's epoch timestamp in its shortest decimal form,
// or "" when absent.
func LastSeen(r inventory.Record) string {
	if r.Timestamp == nil || *r.Timestamp == 0 {
		return ""
	}
	return strconv.FormatFloat(*r.Timestamp, 'f', -1, 64)
}

// field keeps a value on one line
func field(s string) string {
	return lineBreaks.Replace(s)
}

func quoted(s string) string {
	return `"` + strings.ReplaceAll(field(s), `"`, `""`) + `"`
}
