// Package etcfile parses and rewrites colon-separated account databases
// such as passwd(5) and group(5). Edits operate on parsed fields, never on
// raw text, so unrelated fields cannot be corrupted by a rewrite.
package etcfile

import (
	"os"
	"strings"
)

// passwd(5) field layout: name:passwd:uid:gid:gecos:home:shell
const (
	passwdFields     = 7
	passwdShellIndex = 6
)

// Record is one line of an account database.
type Record struct {
	Fields []string
}

// File is a parsed line-oriented account database.
type File struct {
	Records []Record
}

// Parse splits data into records. Blank lines are dropped; comment lines
// are kept verbatim as single-field records so they round-trip.
func Parse(data []byte) *File {
	f := &File{}
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			f.Records = append(f.Records, Record{Fields: []string{line}})
			continue
		}
		f.Records = append(f.Records, Record{Fields: strings.Split(line, ":")})
	}
	return f
}

// Load reads and parses path. A missing file yields an empty File.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &File{}, nil
		}
		return nil, err
	}
	return Parse(data), nil
}

// SetAllShells rewrites the shell field of every full passwd record.
// Records that are not passwd-shaped (comments, short lines) are left
// alone.
func (f *File) SetAllShells(shell string) {
	for i := range f.Records {
		if len(f.Records[i].Fields) == passwdFields {
			f.Records[i].Fields[passwdShellIndex] = shell
		}
	}
}

// Append adds one record at the end of the file.
func (f *File) Append(fields ...string) {
	f.Records = append(f.Records, Record{Fields: fields})
}

// Bytes serializes the file with a trailing newline.
func (f *File) Bytes() []byte {
	var b strings.Builder
	for _, r := range f.Records {
		b.WriteString(strings.Join(r.Fields, ":"))
		b.WriteByte('\n')
	}
	return []byte(b.String())
}

// Save writes the serialized file back to path.
func (f *File) Save(path string) error {
	return os.WriteFile(path, f.Bytes(), 0o644)
}
