package models

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// HistoryEntry is one sidebar item: a past conversation the server wants
// listed, identified by a chat-id-derived element id.
type HistoryEntry struct {
	ID    string
	Title string
}

// historyIDPrefix is the element id prefix the server uses for sidebar
// entries ("chat-<id>").
const historyIDPrefix = "chat-"

// ParseHistoryEntry extracts the chat id and title from a server-rendered
// sidebar fragment. The fragment is parsed as HTML but only the id
// attribute and the text content are taken from it; the markup itself is
// never rendered, so a hostile fragment degrades to garbled text at worst.
func ParseHistoryEntry(fragment string) (*HistoryEntry, error) {
	if strings.TrimSpace(fragment) == "" {
		return nil, fmt.Errorf("empty history fragment")
	}

	nodes, err := html.ParseFragment(strings.NewReader(fragment), &html.Node{
		Type:     html.ElementNode,
		Data:     "ul",
		DataAtom: atom.Ul,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse history fragment: %w", err)
	}

	entry := &HistoryEntry{}
	for _, n := range nodes {
		walkHistoryNode(n, entry)
	}

	entry.Title = strings.Join(strings.Fields(entry.Title), " ")
	if entry.ID == "" {
		return nil, fmt.Errorf("history fragment has no chat id")
	}
	if entry.Title == "" {
		return nil, fmt.Errorf("history fragment has no title")
	}

	return entry, nil
}

func walkHistoryNode(n *html.Node, entry *HistoryEntry) {
	switch n.Type {
	case html.ElementNode:
		for _, attr := range n.Attr {
			switch attr.Key {
			case "id":
				if entry.ID == "" && strings.HasPrefix(attr.Val, historyIDPrefix) {
					entry.ID = strings.TrimPrefix(attr.Val, historyIDPrefix)
				}
			case "data-chat-id":
				if entry.ID == "" {
					entry.ID = attr.Val
				}
			}
		}
	case html.TextNode:
		entry.Title += n.Data + " "
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walkHistoryNode(c, entry)
	}
}
