package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"

	"github.com/five82/wanreader/internal/render"
	"github.com/five82/wanreader/internal/wan"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"

	titleWidth = 60
)

type articleRow struct {
	ID        int    `json:"id" yaml:"id"`
	OriginID  int    `json:"origin_id" yaml:"origin_id"`
	Title     string `json:"title" yaml:"title"`
	Author    string `json:"author,omitempty" yaml:"author,omitempty"`
	Date      string `json:"date,omitempty" yaml:"date,omitempty"`
	Chapter   string `json:"chapter,omitempty" yaml:"chapter,omitempty"`
	Link      string `json:"link" yaml:"link"`
	Collected bool   `json:"collected" yaml:"collected"`
}

type pageOutput struct {
	Page     int          `json:"page" yaml:"page"`
	Over     bool         `json:"over" yaml:"over"`
	Articles []articleRow `json:"articles" yaml:"articles"`
}

type userOutput struct {
	ID       int    `json:"id" yaml:"id"`
	Username string `json:"username" yaml:"username"`
	Name     string `json:"name" yaml:"name"`
}

type toggleOutput struct {
	ID        int  `json:"id" yaml:"id"`
	Collected bool `json:"collected" yaml:"collected"`
}

type readOutput struct {
	Title    string `json:"title" yaml:"title"`
	Byline   string `json:"byline,omitempty" yaml:"byline,omitempty"`
	URL      string `json:"url,omitempty" yaml:"url,omitempty"`
	Markdown string `json:"markdown" yaml:"markdown"`
	SavedTo  string `json:"saved_to,omitempty" yaml:"saved_to,omitempty"`
}

type messageOutput struct {
	Message string `json:"message" yaml:"message"`
}

func checkFormat(format string) error {
	switch format {
	case formatText, formatJSON, formatYAML:
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want text, json or yaml)", format)
	}
}

// emit writes v as JSON or YAML, or hands plain output to text.
func emit(w io.Writer, format string, v any, text func(io.Writer) error) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case formatText:
		return text(w)
	default:
		return checkFormat(format)
	}
}

func newArticleRow(a wan.Article) articleRow {
	return articleRow{
		ID:        a.ID,
		OriginID:  a.OriginID,
		Title:     render.PlainText(a.Title),
		Author:    a.Byline(),
		Date:      a.NiceDate,
		Chapter:   a.Chapter(),
		Link:      a.Link,
		Collected: a.Collect,
	}
}

func printPage(w io.Writer, format string, page int, list wan.ArticlePage) error {
	out := pageOutput{Page: page, Over: list.Over, Articles: make([]articleRow, 0, len(list.Datas))}
	for _, a := range list.Datas {
		out.Articles = append(out.Articles, newArticleRow(a))
	}
	return emit(w, format, out, func(w io.Writer) error {
		if len(out.Articles) == 0 {
			_, err := fmt.Fprintln(w, "No articles.")
			return err
		}
		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("ID", "TITLE", "AUTHOR", "DATE", "")
		for _, r := range out.Articles {
			mark := ""
			if r.Collected {
				mark = "★"
			}
			t.Row(strconv.Itoa(r.ID), render.Preview(r.Title, titleWidth), r.Author, r.Date, mark)
		}
		if _, err := fmt.Fprintln(w, t.String()); err != nil {
			return err
		}
		if out.Over {
			_, err := fmt.Fprintln(w, "No more pages.")
			return err
		}
		_, err := fmt.Fprintf(w, "Next: --page %d\n", page+1)
		return err
	})
}

func printUser(w io.Writer, format, verb string, user wan.User) error {
	out := userOutput{ID: user.ID, Username: user.Username, Name: user.DisplayName()}
	return emit(w, format, out, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "%s %s\n", verb, out.Name)
		return err
	})
}

func printToggle(w io.Writer, format string, id int, collected bool) error {
	out := toggleOutput{ID: id, Collected: collected}
	return emit(w, format, out, func(w io.Writer) error {
		var err error
		if collected {
			_, err = fmt.Fprintf(w, "Collected %d\n", id)
		} else {
			_, err = fmt.Fprintf(w, "Removed %d from favorites\n", id)
		}
		return err
	})
}

func printRead(w io.Writer, format string, out readOutput) error {
	return emit(w, format, out, func(w io.Writer) error {
		if out.Title != "" {
			if _, err := fmt.Fprintf(w, "# %s\n\n", out.Title); err != nil {
				return err
			}
		}
		if out.Byline != "" {
			if _, err := fmt.Fprintf(w, "%s\n\n", out.Byline); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w, out.Markdown); err != nil {
			return err
		}
		if out.SavedTo != "" {
			_, err := fmt.Fprintf(w, "\nSaved %s\n", out.SavedTo)
			return err
		}
		return nil
	})
}

func printMessage(w io.Writer, format, msg string) error {
	return emit(w, format, messageOutput{Message: msg}, func(w io.Writer) error {
		_, err := fmt.Fprintln(w, msg)
		return err
	})
}
