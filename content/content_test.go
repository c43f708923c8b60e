package content

import (
	"reflect"
	"strings"
	"testing"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Hello, World!", "hello-world"},
		{"  ", ""},
		{"", ""},
		{"!!!", ""},
		{"Getting Started with React and TypeScript", "getting-started-with-react-and-typescript"},
		{"  -- leading and trailing --  ", "leading-and-trailing"},
		{"a - b", "a-b"},
		{"a!b", "ab"},
		{"snake_case", "snakecase"},
		{"风险 管理", "风险-管理"},
		{"FRM一级", "frm一级"},
		{"Ｆｕｌｌｗｉｄｔｈ １２３", "fullwidth-123"},
		{"Über Größe", "über-größe"},
		{"tabs\tand\nnewlines", "tabs-and-newlines"},
	}
	for _, tt := range tests {
		got := Slugify(tt.input)
		if got != tt.expected {
			t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestSlugifyDeterministic(t *testing.T) {
	inputs := []string{"Hello, World!", "风险管理", "C# basics", "Don't panic"}
	for _, in := range inputs {
		if a, b := Slugify(in), Slugify(in); a != b {
			t.Errorf("Slugify(%q) not deterministic: %q vs %q", in, a, b)
		}
	}
}

func TestParseFrontmatter(t *testing.T) {
	fm, body := ParseFrontmatter("---\ntitle: Foo\ntags: [a, b]\n---\nBody text")
	if body != "Body text" {
		t.Errorf("body = %q, want %q", body, "Body text")
	}
	if got := fm.String("title"); got != "Foo" {
		t.Errorf("title = %q, want %q", got, "Foo")
	}
	if got := fm.List("tags"); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("tags = %v, want [a b]", got)
	}
	if !fm["tags"].IsList() || fm["title"].IsList() {
		t.Errorf("list/scalar distinction lost: %#v", fm)
	}
	if len(fm) != 2 {
		t.Errorf("len(fm) = %d, want 2", len(fm))
	}
}

func TestFrontmatterHas(t *testing.T) {
	fm, _ := ParseFrontmatter("---\nslug:\ntitle: Foo\n---\n")
	if !fm.Has("slug") || !fm.Has("title") {
		t.Errorf("Has should report keys with and without values: %#v", fm)
	}
	if fm.Has("date") {
		t.Error("Has(date) = true for a missing key")
	}
}

func TestParseFrontmatterEdgeCases(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantBody string
		wantKeys int
	}{
		{"no frontmatter", "# My Title\nSome text", "# My Title\nSome text", 0},
		{"unclosed block", "---\ntitle: x\nbody", "---\ntitle: x\nbody", 0},
		{"not first line", "\n---\ntitle: x\n---\nbody", "\n---\ntitle: x\n---\nbody", 0},
		{"closing at eof", "---\ntitle: x\n---", "", 1},
		{"empty block", "---\n---\nbody", "body", 0},
		{"line without colon", "---\njust words\ntitle: x\n---\nbody", "body", 1},
		{"crlf", "---\r\ntitle: x\r\n---\r\nbody", "body", 1},
		{"only newline after close", "---\na: 1\n---\n\nbody", "\nbody", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fm, body := ParseFrontmatter(tt.input)
			if body != tt.wantBody {
				t.Errorf("body = %q, want %q", body, tt.wantBody)
			}
			if len(fm) != tt.wantKeys {
				t.Errorf("len(fm) = %d, want %d (%v)", len(fm), tt.wantKeys, fm)
			}
		})
	}
}

func TestParseFrontmatterValues(t *testing.T) {
	fm, _ := ParseFrontmatter("---\ntime: 10:30\nlist: [ a , , b ,]\nempty: []\ncustom:  kept \n---\n")
	if got := fm.String("time"); got != "10:30" {
		t.Errorf("time = %q, want split at first colon only", got)
	}
	if got := fm.List("list"); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("list = %v, want [a b]", got)
	}
	if got := fm.List("empty"); len(got) != 0 || !fm["empty"].IsList() {
		t.Errorf("empty = %v, want empty list", got)
	}
	if got := fm.String("custom"); got != "kept" {
		t.Errorf("custom = %q, want %q", got, "kept")
	}
	if got := fm.List("missing"); got == nil || len(got) != 0 {
		t.Errorf("missing list = %#v, want empty non-nil", got)
	}
	if got := fm.List("custom"); !reflect.DeepEqual(got, []string{"kept"}) {
		t.Errorf("scalar as list = %v, want [kept]", got)
	}
}

func TestReadingTime(t *testing.T) {
	tests := []struct {
		words    int
		expected int
	}{
		{0, 0},
		{1, 1},
		{200, 1},
		{201, 2},
		{1000, 5},
	}
	for _, tt := range tests {
		body := strings.TrimSpace(strings.Repeat("word ", tt.words))
		if got := ReadingTime(body); got != tt.expected {
			t.Errorf("ReadingTime(%d words) = %d, want %d", tt.words, got, tt.expected)
		}
	}
}

func TestReadingTimeMonotonic(t *testing.T) {
	prev := 0
	for w := 0; w <= 1200; w += 37 {
		got := ReadingTime(strings.Repeat("w ", w))
		if got < prev {
			t.Fatalf("ReadingTime dropped from %d to %d at %d words", prev, got, w)
		}
		prev = got
	}
}

func TestExcerptStripsMarkdown(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"# Title\nSome text", "Title Some text"},
		{"See [the docs](https://example.com) now", "See the docs now"},
		{"**bold** and *italic*", "bold and italic"},
		{"Run `go test` now", "Run go test now"},
		{"Before\n```bash\nnpm install\n```\nAfter", "Before After"},
		{"line one\n\n\nline two", "line one line two"},
	}
	for _, tt := range tests {
		if got := Excerpt(tt.input, ExcerptLength); got != tt.expected {
			t.Errorf("Excerpt(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestExcerptBound(t *testing.T) {
	long := strings.Repeat("abcdefghij ", 40)
	got := Excerpt(long, 150)
	if !strings.HasSuffix(got, Ellipsis) {
		t.Errorf("clipped excerpt should end with ellipsis: %q", got)
	}
	if n := len([]rune(got)); n > 150+len(Ellipsis) {
		t.Errorf("excerpt length %d exceeds bound", n)
	}

	short := "Short body."
	if got := Excerpt(short, 150); got != short {
		t.Errorf("Excerpt(%q) = %q, want unchanged", short, got)
	}

	exact := strings.Repeat("x", 150)
	if got := Excerpt(exact, 150); got != exact {
		t.Errorf("excerpt of exactly max length should not be clipped")
	}
}

func TestExcerptCountsCharacters(t *testing.T) {
	body := strings.Repeat("风", 151)
	got := Excerpt(body, 150)
	if want := strings.Repeat("风", 150) + Ellipsis; got != want {
		t.Errorf("Excerpt of CJK text clipped at %d runes, want 150", len([]rune(got))-len(Ellipsis))
	}
}

func TestScanHeadings(t *testing.T) {
	body := "# Title\ntext\n## Why TypeScript?\n```bash\n# not a heading\n```\n###   Key Benefits  \n#NoSpace\n####### seven"
	got := ScanHeadings(body)
	want := []Heading{
		{Level: 1, Text: "Title", ID: "title", Line: 1},
		{Level: 2, Text: "Why TypeScript?", ID: "why-typescript", Line: 3},
		{Level: 3, Text: "Key Benefits", ID: "key-benefits", Line: 7},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ScanHeadings() = %+v, want %+v", got, want)
	}
}

func TestExtractTOCNesting(t *testing.T) {
	toc := ExtractTOC("# A\n## B\n### C\n## D\n# E\n## F")
	if len(toc) != 2 {
		t.Fatalf("roots = %d, want 2", len(toc))
	}
	a := toc[0]
	if a.ID != "a" || len(a.Children) != 2 {
		t.Fatalf("A = %+v, want two children", a)
	}
	if a.Children[0].ID != "b" || len(a.Children[0].Children) != 1 || a.Children[0].Children[0].ID != "c" {
		t.Errorf("B subtree wrong: %+v", a.Children[0])
	}
	if a.Children[1].ID != "d" {
		t.Errorf("second child = %q, want d", a.Children[1].ID)
	}
	if toc[1].ID != "e" || len(toc[1].Children) != 1 || toc[1].Children[0].ID != "f" {
		t.Errorf("E subtree wrong: %+v", toc[1])
	}
}

func TestExtractTOCFallbackRoot(t *testing.T) {
	toc := ExtractTOC("# A\n### B")
	if len(toc) != 2 {
		t.Fatalf("roots = %d, want 2", len(toc))
	}
	if toc[0].Level != 1 || toc[1].Level != 3 || len(toc[0].Children) != 0 {
		t.Errorf("level-3 heading should be a root sibling: %+v %+v", toc[0], toc[1])
	}

	toc = ExtractTOC("## Orphan\n### Child")
	if len(toc) != 1 || len(toc[0].Children) != 1 {
		t.Errorf("### should nest under a root-level ##: %+v", toc)
	}
}

func TestExtractTOCDuplicateIDs(t *testing.T) {
	toc := ExtractTOC("## Setup\n## Setup")
	if len(toc) != 2 || toc[0].ID != "setup" || toc[1].ID != "setup" {
		t.Errorf("duplicate headings should keep duplicate ids: %+v", toc)
	}
}

func TestFlatten(t *testing.T) {
	flat := Flatten(ExtractTOC("# A\n## B\n### C\n# D"))
	var ids []string
	for _, n := range flat {
		ids = append(ids, n.ID)
	}
	if want := []string{"a", "b", "c", "d"}; !reflect.DeepEqual(ids, want) {
		t.Errorf("Flatten ids = %v, want %v", ids, want)
	}
}

func TestScanHeadingsSkipsBlocks(t *testing.T) {
	body := "$$\n# in math\n$$\n~~~~\n# in tilde fence\n~~~\n# still fenced\n~~~~\n``` not `a fence`\n# After Inline Ticks ##\n# C# ##"
	var texts []string
	for _, h := range ScanHeadings(body) {
		texts = append(texts, h.Text)
	}
	want := []string{"After Inline Ticks", "C#"}
	if !reflect.DeepEqual(texts, want) {
		t.Errorf("heading texts = %q, want %q", texts, want)
	}
}

func TestScanHeadingsFollowsBlockStructure(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{"comment", "<!--\n# Draft\n-->\n# Kept", []string{"Kept"}},
		{"declaration", "<!DOCTYPE html>\n# Kept", []string{"Kept"}},
		{"block tag until blank line", "<section>\n# Hidden\n\n# Kept", []string{"Kept"}},
		{"inline tag inside paragraph", "text\n<span>\n# Kept", []string{"Kept"}},
		{"indented up to three spaces", "   # Kept\n    # Code", []string{"Kept"}},
		{"math needs a bare close", "$$\n$$$\n# Hidden\n$$\n# Kept", []string{"Kept"}},
		{"list item", "* # Hidden\n  # Hidden too\n\n# Kept", []string{"Kept"}},
		{"ordered list interrupting a paragraph", "text\n2. not a list\n  # Kept", []string{"Kept"}},
		{"setext underline", "Title\n---\n# Kept", []string{"Kept"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var texts []string
			for _, h := range ScanHeadings(tt.body) {
				texts = append(texts, h.Text)
			}
			if !reflect.DeepEqual(texts, tt.want) {
				t.Errorf("heading texts = %q, want %q", texts, tt.want)
			}
		})
	}
}

func TestBuildTOCSkipsEmptyIDs(t *testing.T) {
	headings := ScanHeadings("#\n## ###\n## Kept")
	if len(headings) != 3 {
		t.Fatalf("ScanHeadings found %d headings, want 3", len(headings))
	}
	toc := BuildTOC(headings)
	if len(toc) != 1 || toc[0].ID != "kept" {
		t.Errorf("TOC = %+v, want only kept", toc)
	}
}
