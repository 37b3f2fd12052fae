package rss

import (
	"fmt"
	"html"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lysyi3m/atomrss/internal/logtest"
)

func channelDoc(body string) string {
	return fmt.Sprintf(`<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <title>Example Channel</title>
    <link>http://example.com/</link>
    <description>Example things</description>
%s
  </channel>
</rss>`, body)
}

func TestParseChannel(t *testing.T) {
	doc := channelDoc(`    <lastBuildDate>Mon, 03 Jul 2023 12:00:00 GMT</lastBuildDate>
    <item>
      <title>First</title>
      <link>http://example.com/1</link>
      <description>Tom &amp;amp; Jerry</description>
      <author>jane@example.com (Jane Doe)</author>
      <pubDate>Mon, 03 Jul 2023 10:00:00 GMT</pubDate>
      <enclosure url="http://example.com/1.mp3" length="1048576" type="audio/mpeg"/>
    </item>
    <item>
      <title>Second</title>
    </item>`)

	recorder := logtest.NewRecorder()
	result, err := Parse(strings.NewReader(doc), "channel.xml", recorder.Logger())
	require.NoError(t, err)

	assert.Equal(t, "2.0", result.Version)

	channel := result.Channel
	assert.Equal(t, "Example Channel", channel.Title)
	assert.Equal(t, "http://example.com/", channel.Link)
	assert.Equal(t, "Example things", channel.Description)
	require.NotNil(t, channel.LastBuildDate)
	assert.True(t, channel.LastBuildDate.Equal(time.Date(2023, 7, 3, 12, 0, 0, 0, time.UTC)))

	require.Len(t, channel.Items, 2)

	item := channel.Items[0]
	require.NotNil(t, item.Title)
	assert.Equal(t, "First", *item.Title)
	require.NotNil(t, item.Link)
	assert.Equal(t, "http://example.com/1", *item.Link)
	require.NotNil(t, item.Description)
	assert.Equal(t, "Tom & Jerry", *item.Description)

	require.NotNil(t, item.Author)
	assert.Equal(t, Person{Name: "Jane Doe", Email: "jane@example.com"}, *item.Author)

	require.NotNil(t, item.PubDate)
	assert.True(t, item.PubDate.Equal(time.Date(2023, 7, 3, 10, 0, 0, 0, time.UTC)))

	require.NotNil(t, item.Enclosure)
	assert.Equal(t, Enclosure{
		URL:    "http://example.com/1.mp3",
		Length: 1048576,
		Type:   "audio/mpeg",
	}, *item.Enclosure)

	second := channel.Items[1]
	require.NotNil(t, second.Title)
	assert.Nil(t, second.Link)
	assert.Nil(t, second.Description)
	assert.Nil(t, second.Author)
	assert.Nil(t, second.PubDate)
	assert.Nil(t, second.Enclosure)

	assert.Empty(t, recorder.Events())
}

func TestParseInvalidRoot(t *testing.T) {
	doc := `<feed xmlns="http://www.w3.org/2005/Atom"/>`

	_, err := Parse(strings.NewReader(doc), "atom.xml", nil)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, ErrInvalidRoot, perr.Kind)
	assert.Equal(t, "<{http://www.w3.org/2005/Atom}feed>", perr.Element)
}

func TestParseVersionValidation(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		doc := `<rss><channel><title>T</title><link>L</link><description>D</description></channel></rss>`
		_, err := Parse(strings.NewReader(doc), "noversion.xml", nil)
		var perr *ParseError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, ErrMissingAttribute, perr.Kind)
		assert.Equal(t, "version", perr.Attribute)
	})

	t.Run("unsupported", func(t *testing.T) {
		doc := `<rss version="1.0"><channel><title>T</title><link>L</link><description>D</description></channel></rss>`
		_, err := Parse(strings.NewReader(doc), "old.xml", nil)
		var perr *ParseError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, ErrVersionUnsupported, perr.Kind)
		assert.Equal(t, "1.0", perr.Version)
	})

	t.Run("legacy revisions accepted", func(t *testing.T) {
		for _, version := range []string{"2.0", "0.92", "0.91"} {
			doc := fmt.Sprintf(`<rss version=%q><channel><title>T</title><link>L</link><description>D</description></channel></rss>`, version)
			result, err := Parse(strings.NewReader(doc), "legacy.xml", nil)
			require.NoError(t, err)
			assert.Equal(t, version, result.Version)
		}
	})
}

func TestParseMissingMandatoryChannelElement(t *testing.T) {
	cases := []struct {
		name    string
		doc     string
		element string
	}{
		{
			name:    "channel",
			doc:     `<rss version="2.0"></rss>`,
			element: "<channel>",
		},
		{
			name:    "title",
			doc:     `<rss version="2.0"><channel><link>L</link><description>D</description></channel></rss>`,
			element: "<title>",
		},
		{
			name:    "link",
			doc:     `<rss version="2.0"><channel><title>T</title><description>D</description></channel></rss>`,
			element: "<link>",
		},
		{
			name:    "description",
			doc:     `<rss version="2.0"><channel><title>T</title><link>L</link></channel></rss>`,
			element: "<description>",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tc.doc), "broken.xml", nil)
			var perr *ParseError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, ErrMissingElement, perr.Kind)
			assert.Equal(t, tc.element, perr.Element)
		})
	}
}

func TestParseDropsItemWithoutTitleAndDescription(t *testing.T) {
	doc := channelDoc(`    <item>
      <link>http://example.com/1</link>
    </item>
    <item>
      <description>Kept</description>
    </item>`)

	recorder := logtest.NewRecorder()
	result, err := Parse(strings.NewReader(doc), "items.xml", recorder.Logger())
	require.NoError(t, err)

	require.Len(t, result.Channel.Items, 1)
	item := result.Channel.Items[0]
	assert.Nil(t, item.Title)
	require.NotNil(t, item.Description)
	assert.Equal(t, "Kept", *item.Description)

	event := recorder.Find("invalid-item")
	require.NotNil(t, event)
	assert.Equal(t, "missing-element", event.Attrs["cause"])
	assert.Equal(t, "<title> or <description>", event.Attrs["element"])
	assert.Equal(t, "items.xml", event.Attrs["source"])
	assert.Equal(t, "2.0", event.Attrs["rss_version"])
	assert.NotZero(t, event.Attrs["lineno"])
}

func TestParseItemAuthorForms(t *testing.T) {
	cases := []struct {
		name   string
		author string
		want   Person
	}{
		{
			name:   "address with comment",
			author: "jane@example.com (Jane Doe)",
			want:   Person{Name: "Jane Doe", Email: "jane@example.com"},
		},
		{
			name:   "display name with angle address",
			author: "Jane Doe <jane@example.com>",
			want:   Person{Name: "Jane Doe", Email: "jane@example.com"},
		},
		{
			name:   "bare address",
			author: "jane@example.com",
			want:   Person{Email: "jane@example.com"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc := channelDoc(fmt.Sprintf(`    <item>
      <title>T</title>
      <author>%s</author>
    </item>`, html.EscapeString(tc.author)))

			result, err := Parse(strings.NewReader(doc), "authors.xml", nil)
			require.NoError(t, err)
			require.Len(t, result.Channel.Items, 1)
			require.NotNil(t, result.Channel.Items[0].Author)
			assert.Equal(t, tc.want, *result.Channel.Items[0].Author)
		})
	}
}

func TestParseInvalidEnclosure(t *testing.T) {
	cases := []struct {
		name      string
		enclosure string
		cause     string
		attrs     map[string]any
	}{
		{
			name:      "negative length",
			enclosure: `<enclosure url="http://example.com/1.mp3" length="-1" type="audio/mpeg"/>`,
			cause:     "invalid-length",
			attrs:     map[string]any{"length": "-1"},
		},
		{
			name:      "non-numeric length",
			enclosure: `<enclosure url="http://example.com/1.mp3" length="garbage" type="audio/mpeg"/>`,
			cause:     "invalid-length",
			attrs:     map[string]any{"length": "garbage"},
		},
		{
			name:      "missing url",
			enclosure: `<enclosure length="1024" type="audio/mpeg"/>`,
			cause:     "missing-attribute",
			attrs:     map[string]any{"attribute": "url"},
		},
		{
			name:      "missing type",
			enclosure: `<enclosure url="http://example.com/1.mp3" length="1024"/>`,
			cause:     "missing-attribute",
			attrs:     map[string]any{"attribute": "type"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc := channelDoc(fmt.Sprintf(`    <item>
      <title>T</title>
      %s
    </item>`, tc.enclosure))

			recorder := logtest.NewRecorder()
			result, err := Parse(strings.NewReader(doc), "enclosures.xml", recorder.Logger())
			require.NoError(t, err)

			// Enclosure failures stay local to the item.
			require.Len(t, result.Channel.Items, 1)
			assert.Nil(t, result.Channel.Items[0].Enclosure)

			event := recorder.Find("invalid-enclosure")
			require.NotNil(t, event)
			assert.Equal(t, tc.cause, event.Attrs["cause"])
			for key, want := range tc.attrs {
				assert.Equal(t, want, event.Attrs[key])
			}
		})
	}
}

func TestParseInvalidDates(t *testing.T) {
	doc := channelDoc(`    <lastBuildDate>yesterday-ish</lastBuildDate>
    <item>
      <title>T</title>
      <pubDate>garbage</pubDate>
    </item>`)

	recorder := logtest.NewRecorder()
	result, err := Parse(strings.NewReader(doc), "dates.xml", recorder.Logger())
	require.NoError(t, err)

	assert.Nil(t, result.Channel.LastBuildDate)
	require.Len(t, result.Channel.Items, 1)
	assert.Nil(t, result.Channel.Items[0].PubDate)

	lastBuild := recorder.Find("invalid-last-build-date")
	require.NotNil(t, lastBuild)
	assert.Equal(t, "yesterday-ish", lastBuild.Attrs["date"])

	pubDate := recorder.Find("invalid-pub-date")
	require.NotNil(t, pubDate)
	assert.Equal(t, "garbage", pubDate.Attrs["date"])
}
