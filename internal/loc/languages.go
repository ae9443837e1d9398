package loc

import "github.com/fatih/color"

// Language describes how to classify lines for one file extension.
type Language struct {
	Name       string
	Color      color.Attribute
	Single     string // line-comment prefix, "" if none
	MultiStart string // block-comment opener, "" if none
	MultiEnd   string
}

// Languages maps a lowercased file extension (with dot) to its definition.
// Only files with a known extension are counted.
var Languages = map[string]Language{
	".py": {Name: "Python", Color: color.FgYellow, Single: "#", MultiStart: `"""`, MultiEnd: `"""`},

	".html": {Name: "HTML", Color: color.FgRed, MultiStart: "<!--", MultiEnd: "-->"},
	".css":  {Name: "CSS", Color: color.FgBlue, MultiStart: "/*", MultiEnd: "*/"},
	".scss": {Name: "Sass", Color: color.FgMagenta, Single: "//", MultiStart: "/*", MultiEnd: "*/"},
	".js":   {Name: "JavaScript", Color: color.FgYellow, Single: "//", MultiStart: "/*", MultiEnd: "*/"},
	".jsx":  {Name: "JavaScript JSX", Color: color.FgYellow, Single: "//", MultiStart: "/*", MultiEnd: "*/"},
	".ts":   {Name: "TypeScript", Color: color.FgBlue, Single: "//", MultiStart: "/*", MultiEnd: "*/"},
	".tsx":  {Name: "TypeScript TSX", Color: color.FgBlue, Single: "//", MultiStart: "/*", MultiEnd: "*/"},
	".json": {Name: "JSON", Color: color.FgHiBlack},

	".c":    {Name: "C", Color: color.FgBlue, Single: "//", MultiStart: "/*", MultiEnd: "*/"},
	".h":    {Name: "C Header", Color: color.FgBlue, Single: "//", MultiStart: "/*", MultiEnd: "*/"},
	".cpp":  {Name: "C++", Color: color.FgBlue, Single: "//", MultiStart: "/*", MultiEnd: "*/"},
	".cs":   {Name: "C#", Color: color.FgMagenta, Single: "//", MultiStart: "/*", MultiEnd: "*/"},
	".java": {Name: "Java", Color: color.FgRed, Single: "//", MultiStart: "/*", MultiEnd: "*/"},

	".go":  {Name: "Go", Color: color.FgCyan, Single: "//", MultiStart: "/*", MultiEnd: "*/"},
	".rs":  {Name: "Rust", Color: color.FgRed, Single: "//", MultiStart: "/*", MultiEnd: "*/"},
	".php": {Name: "PHP", Color: color.FgMagenta, Single: "//", MultiStart: "/*", MultiEnd: "*/"},

	".md":   {Name: "Markdown", Color: color.FgWhite},
	".yaml": {Name: "YAML", Color: color.FgCyan, Single: "#"},
	".yml":  {Name: "YAML", Color: color.FgCyan, Single: "#"},
	".toml": {Name: "TOML", Color: color.FgCyan, Single: "#"},
	".xml":  {Name: "XML", Color: color.FgRed, MultiStart: "<!--", MultiEnd: "-->"},
	".sql":  {Name: "SQL", Color: color.FgYellow, Single: "--", MultiStart: "/*", MultiEnd: "*/"},

	".sh":  {Name: "Shell", Color: color.FgGreen, Single: "#"},
	".lua": {Name: "Lua", Color: color.FgBlue, Single: "--", MultiStart: "--[[", MultiEnd: "]]"},
}
