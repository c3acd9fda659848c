package apod

import (
	"errors"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/litescript/apod-desktop/internal/apperr"
)

var (
	errNoImage = errors.New("no image link on page (video or interactive day?)")
	errNoTitle = errors.New("no title on page")
)

// Parse extracts the picture from an APOD page. base resolves relative links.
//
// The full-size image is the first link into the site's image/ tree. The
// title is the bold text of the <center> block that follows the image.
func Parse(r io.Reader, base *url.URL) (Latest, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return Latest{}, apperr.Parse("parse APOD page", err)
	}

	link := imageLink(doc)
	if link == nil {
		return Latest{}, apperr.Parse("find image", errNoImage)
	}
	href, _ := link.Attr("href")
	imageURL, err := resolveURL(base, href)
	if err != nil {
		return Latest{}, apperr.Parse("resolve image URL", err)
	}

	title := titleAfter(link)
	if title == "" {
		title = pageTitle(doc)
	}
	if title == "" {
		return Latest{}, apperr.Parse("find title", errNoTitle)
	}

	return Latest{
		ImageURL: imageURL,
		Title:    title,
		PageURL:  base.String(),
	}, nil
}

func imageLink(doc *goquery.Document) *goquery.Selection {
	var found *goquery.Selection
	doc.Find("a[href]").EachWithBreak(func(i int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		if strings.HasPrefix(href, "image") || strings.Contains(href, "/image/") {
			found = s
			return false
		}
		return true
	})
	return found
}

// titleAfter looks for the first <b> in the <center> following the block
// holding the image link.
func titleAfter(link *goquery.Selection) string {
	block := link.Closest("center")
	if block.Length() == 0 {
		return ""
	}
	next := block.NextAllFiltered("center").First()
	return collapseSpace(next.Find("b").First().Text())
}

// pageTitle takes the part of <title> after the date, e.g.
// "APOD: 2024 June 5 - The Orion Nebula".
func pageTitle(doc *goquery.Document) string {
	t := collapseSpace(doc.Find("title").First().Text())
	if i := strings.LastIndex(t, " - "); i >= 0 {
		return strings.TrimSpace(t[i+3:])
	}
	return ""
}

func resolveURL(base *url.URL, href string) (string, error) {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", err
	}
	return base.ResolveReference(ref).String(), nil
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
