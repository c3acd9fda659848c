// Package launcher writes freedesktop .desktop files that run the program
// in each of its modes.
package launcher

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/litescript/apod-desktop/internal/apperr"
)

// Entry is one launcher file.
type Entry struct {
	File    string
	Name    string
	Args    string
	Icon    string
	Comment string
}

// DefaultIcon is used for the main launcher when none is configured.
const DefaultIcon = "preferences-desktop-wallpaper"

// Entries returns the previous, refresh and next launchers. icon is used
// for the refresh launcher; empty means DefaultIcon.
func Entries(icon string) []Entry {
	if icon == "" {
		icon = DefaultIcon
	}
	return []Entry{
		{
			File:    "nasa-apod-desktop-previous.desktop",
			Name:    "<",
			Args:    "previous",
			Icon:    "go-previous",
			Comment: "Goes to the previous background in your NASA APOD history",
		},
		{
			File:    "nasa-apod-desktop.desktop",
			Name:    "NASA APOD",
			Icon:    icon,
			Comment: "Checks for new NASA APOD images and sets it as your background",
		},
		{
			File:    "nasa-apod-desktop-next.desktop",
			Name:    ">",
			Args:    "next",
			Icon:    "go-next",
			Comment: "Goes to the next background in your NASA APOD history",
		},
	}
}

var entryTmpl = template.Must(template.New("desktop").Parse(`[Desktop Entry]
Version=1.0
Type=Application
Name={{.Name}}
Exec={{.Exec}}
Icon={{.Icon}}
Comment={{.Comment}}
Categories=
MimeType=
`))

// Result lists what WriteDesktopFiles did.
type Result struct {
	Written []string
	Skipped []string
}

// WriteDesktopFiles creates the launchers in dir, running executable.
// Files that already exist are left alone.
func WriteDesktopFiles(dir, executable string, entries []Entry) (Result, error) {
	var res Result
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return res, apperr.Filesystem("create desktop dir", err)
	}

	for _, e := range entries {
		path := filepath.Join(dir, e.File)
		content, err := Render(e, executable)
		if err != nil {
			return res, err
		}

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o755)
		if errors.Is(err, fs.ErrExist) {
			res.Skipped = append(res.Skipped, path)
			continue
		}
		if err != nil {
			return res, apperr.Filesystem("create "+e.File, err)
		}
		_, werr := f.Write(content)
		cerr := f.Close()
		if werr != nil || cerr != nil {
			os.Remove(path)
			return res, apperr.Filesystem("write "+e.File, errors.Join(werr, cerr))
		}
		res.Written = append(res.Written, path)
	}
	return res, nil
}

// Render returns the .desktop file content for e.
func Render(e Entry, executable string) ([]byte, error) {
	exec := quoteArg(executable)
	if e.Args != "" {
		exec += " " + e.Args
	}

	var buf bytes.Buffer
	err := entryTmpl.Execute(&buf, struct {
		Entry
		Exec string
	}{e, exec})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// quoteArg quotes an Exec argument when it contains reserved characters.
func quoteArg(s string) string {
	if !strings.ContainsAny(s, " \t\n\"'\\><~|&;$*?#()`") {
		return s
	}
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "`", "\\`", `$`, `\$`)
	return `"` + r.Replace(s) + `"`
}
