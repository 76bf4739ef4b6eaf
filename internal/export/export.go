// Package export writes articles to disk as markdown files with YAML front
// matter, one file per article, named after the title.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"gopkg.in/yaml.v3"

	"github.com/five82/wanreader/internal/render"
	"github.com/five82/wanreader/internal/wan"
)

const maxFilenameLength = 120

// FrontMatter is the YAML header of an exported file.
type FrontMatter struct {
	Title      string    `yaml:"title"`
	Author     string    `yaml:"author,omitempty"`
	Chapter    string    `yaml:"chapter,omitempty"`
	Published  string    `yaml:"published,omitempty"`
	Source     string    `yaml:"source"`
	ArticleID  int       `yaml:"article_id"`
	Collected  bool      `yaml:"collected"`
	ExportedAt time.Time `yaml:"exported_at"`
	Tags       []string  `yaml:"tags"`
}

// Exporter writes into a single directory.
type Exporter struct {
	dir string
	now func() time.Time
}

// New returns an Exporter rooted at dir.
func New(dir string) *Exporter {
	return &Exporter{dir: dir, now: time.Now}
}

// Dir returns the export directory.
func (e *Exporter) Dir() string {
	return e.dir
}

// Write exports article. When page carries extracted content it becomes the
// body; otherwise the article description is used. Returns the written path.
func (e *Exporter) Write(article wan.Article, page *render.Page) (string, error) {
	if strings.TrimSpace(e.dir) == "" {
		return "", fmt.Errorf("export dir is empty")
	}
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}

	content, err := e.build(article, page)
	if err != nil {
		return "", err
	}

	path := resolveCollision(filepath.Join(e.dir, Filename(article.Title, article.ID)))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return path, nil
}

func (e *Exporter) build(article wan.Article, page *render.Page) (string, error) {
	tags := []string{"wanandroid"}
	if article.SuperChapterName != "" {
		tags = append(tags, article.SuperChapterName)
	}
	if article.ChapterName != "" && article.ChapterName != article.SuperChapterName {
		tags = append(tags, article.ChapterName)
	}

	source := article.Link
	if page != nil && page.FinalURL != "" {
		source = page.FinalURL
	}

	front := FrontMatter{
		Title:      article.Title,
		Author:     article.Byline(),
		Chapter:    article.Chapter(),
		Published:  article.NiceDate,
		Source:     source,
		ArticleID:  article.ID,
		Collected:  article.Collect,
		ExportedAt: e.now().UTC(),
		Tags:       tags,
	}
	yamlBytes, err := yaml.Marshal(front)
	if err != nil {
		return "", fmt.Errorf("marshal frontmatter: %w", err)
	}

	var body string
	switch {
	case page != nil && page.Markdown != "":
		body = page.Markdown
	default:
		body, err = render.Markdown(article.Desc)
		if err != nil {
			return "", err
		}
	}

	var content strings.Builder
	content.WriteString("---\n")
	content.Write(yamlBytes)
	content.WriteString("---\n\n")
	if body != "" {
		content.WriteString(body)
		content.WriteString("\n")
	} else {
		content.WriteString(fmt.Sprintf("*Full text not fetched. Source: %s*\n", source))
	}
	return content.String(), nil
}

// Filename is the slugged title with the article id appended, plus ".md".
// Pages saved without an article have no id to append.
func Filename(title string, id int) string {
	suffix := ""
	if id > 0 {
		suffix = "-" + strconv.Itoa(id)
	}
	base := slug.Make(title)
	if limit := maxFilenameLength - 20; len(base) > limit {
		base = strings.TrimRight(base[:limit], "-")
	}
	if base == "" {
		base = "article"
	}
	return base + suffix + ".md"
}

func resolveCollision(path string) string {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return path
	}

	dir := filepath.Dir(path)
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(filepath.Base(path), ext)

	for counter := 2; counter <= 100; counter++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s-%d%s", base, counter, ext))
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
	}
	return filepath.Join(dir, fmt.Sprintf("%s-%d%s", base, time.Now().Unix(), ext))
}
