package wan

import (
	"encoding/json"
	"strings"
)

// Envelope mirrors the uniform wrapper every endpoint responds with.
// Data is nil when the server sent null or omitted the field.
type Envelope[T any] struct {
	Data      *T     `json:"data"`
	ErrorCode int    `json:"errorCode"`
	ErrorMsg  string `json:"errorMsg"`
}

// OK reports whether the server considered the call successful.
func (e Envelope[T]) OK() bool {
	return e.ErrorCode == 0
}

// Ack is the payload type for endpoints whose data is ignored.
type Ack = json.RawMessage

// User mirrors the payload returned by user/login and user/register.
type User struct {
	ID         int    `json:"id"`
	Username   string `json:"username"`
	Nickname   string `json:"nickname"`
	PublicName string `json:"publicName"`
	Email      string `json:"email"`
	Icon       string `json:"icon"`
	Type       int    `json:"type"`
	Token      string `json:"token"`
	CoinCount  int    `json:"coinCount"`
	CollectIDs []int  `json:"collectIds"`
}

// DisplayName prefers the public name, then the nickname, then the login name.
func (u User) DisplayName() string {
	for _, v := range []string{u.PublicName, u.Nickname, u.Username} {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

// ArticlePage mirrors the paged list payload of article/list and lg/collect/list.
type ArticlePage struct {
	CurPage   int       `json:"curPage"`
	Datas     []Article `json:"datas"`
	Offset    int       `json:"offset"`
	Over      bool      `json:"over"`
	PageCount int       `json:"pageCount"`
	Size      int       `json:"size"`
	Total     int       `json:"total"`
}

// Article describes a shared article. OriginID differs from ID only for
// entries reached through the favorites list, where ID names the favorite
// record and OriginID the article it points to.
type Article struct {
	ID               int    `json:"id"`
	OriginID         int    `json:"originId"`
	Title            string `json:"title"`
	Link             string `json:"link"`
	Author           string `json:"author"`
	ShareUser        string `json:"shareUser"`
	NiceDate         string `json:"niceDate"`
	Desc             string `json:"desc"`
	ChapterName      string `json:"chapterName"`
	SuperChapterName string `json:"superChapterName"`
	Collect          bool   `json:"collect"`
	UserID           int    `json:"userId"`
}

const noUser = -1

// UnmarshalJSON applies the defaults the service leaves implicit: a missing
// or zero originId means the article is its own origin, and a missing userId
// is reported as -1.
func (a *Article) UnmarshalJSON(data []byte) error {
	type plain Article
	aux := struct {
		*plain
		OriginID *int `json:"originId"`
		UserID   *int `json:"userId"`
	}{plain: (*plain)(a)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	a.OriginID = a.ID
	if aux.OriginID != nil && *aux.OriginID != 0 {
		a.OriginID = *aux.OriginID
	}
	a.UserID = noUser
	if aux.UserID != nil {
		a.UserID = *aux.UserID
	}
	return nil
}

// Byline returns the author, falling back to the sharing user.
func (a Article) Byline() string {
	if author := strings.TrimSpace(a.Author); author != "" {
		return author
	}
	return strings.TrimSpace(a.ShareUser)
}

// Chapter joins the super chapter and chapter names.
func (a Article) Chapter() string {
	super := strings.TrimSpace(a.SuperChapterName)
	chapter := strings.TrimSpace(a.ChapterName)
	switch {
	case super == "":
		return chapter
	case chapter == "":
		return super
	default:
		return super + " / " + chapter
	}
}

// MarkCollected returns a copy of the page with every article flagged as
// collected. The favorites list omits the flag even though every entry is one.
func (p ArticlePage) MarkCollected() ArticlePage {
	if len(p.Datas) == 0 {
		return p
	}
	dup := make([]Article, len(p.Datas))
	copy(dup, p.Datas)
	for i := range dup {
		dup[i].Collect = true
	}
	p.Datas = dup
	return p
}
