package complexity

import (
	"archive/zip"
	"bufio"
	"bytes"
	"io"
	"path"
	"strings"
)

// languageExtensions maps a classified language name to the source
// file extensions counted for it.
var languageExtensions = map[string][]string{
	"Python":    {".py"},
	"Node.js":   {".js", ".mjs", ".cjs", ".ts"},
	"Java":      {".java"},
	"Go":        {".go"},
	"Ruby":      {".rb"},
	".NET":      {".cs"},
	".NET Core": {".cs"},
}

// allExtensions is the fallback set for custom and unknown runtimes.
var allExtensions = []string{".py", ".js", ".mjs", ".cjs", ".ts", ".java", ".go", ".rb", ".cs", ".sh"}

// CountArchiveLines sums non-blank, non-comment lines across source
// files in a zip archive. Payloads that are not zip containers
// (container images, corrupted downloads) count as zero lines.
func CountArchiveLines(data []byte, language string) int {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0
	}

	exts := sourceExtensions(language)
	total := 0

	for _, f := range zr.File {
		if f.FileInfo().IsDir() || !exts[strings.ToLower(path.Ext(f.Name))] {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			continue
		}
		total += countSourceLines(rc)
		_ = rc.Close()
	}
	return total
}

func sourceExtensions(language string) map[string]bool {
	list, ok := languageExtensions[language]
	if !ok {
		list = allExtensions
	}
	set := make(map[string]bool, len(list))
	for _, ext := range list {
		set[ext] = true
	}
	return set
}

// commentPrefixes are treated as comment lines regardless of language.
// A coarse filter is enough for a tier estimate.
var commentPrefixes = []string{"#", "//", "/*", "*", "--"}

func countSourceLines(r io.Reader) int {
	count := 0
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1<<20)

	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || isComment(line) {
			continue
		}
		count++
	}
	return count
}

func isComment(line string) bool {
	for _, p := range commentPrefixes {
		if strings.HasPrefix(line, p) {
			return true
		}
	}
	return false
}
