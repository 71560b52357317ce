package bgg

import (
	"encoding/xml"
	"fmt"
	"strconv"

	"github.com/vk/bggflow/internal/dataset"
)

// Wire structures for the /xmlapi2/thing response.

type xmlItems struct {
	XMLName xml.Name  `xml:"items"`
	Items   []xmlItem `xml:"item"`
}

type xmlItem struct {
	Type       string     `xml:"type,attr"`
	ID         int        `xml:"id,attr"`
	Thumbnail  string     `xml:"thumbnail"`
	Image      string     `xml:"image"`
	Names      []xmlName  `xml:"name"`
	YearPub    xmlValue   `xml:"yearpublished"`
	MinPlayers xmlValue   `xml:"minplayers"`
	MaxPlayers xmlValue   `xml:"maxplayers"`
	Playing    xmlValue   `xml:"playingtime"`
	MinPlay    xmlValue   `xml:"minplaytime"`
	MaxPlay    xmlValue   `xml:"maxplaytime"`
	MinAge     xmlValue   `xml:"minage"`
	Links      []xmlLink  `xml:"link"`
	Statistics *xmlStats  `xml:"statistics"`
}

type xmlName struct {
	Type  string `xml:"type,attr"`
	Value string `xml:"value,attr"`
}

type xmlValue struct {
	Value string `xml:"value,attr"`
}

type xmlLink struct {
	Type  string `xml:"type,attr"`
	Value string `xml:"value,attr"`
}

type xmlStats struct {
	Ratings struct {
		UsersRated xmlValue `xml:"usersrated"`
		Average    xmlValue `xml:"average"`
	} `xml:"ratings"`
}

// parseThings decodes a /thing response body into game records. Non-boardgame
// items (the API mixes in expansions when asked) are kept as-is; filtering is
// the caller's concern.
func parseThings(data []byte) ([]dataset.Game, error) {
	var items xmlItems
	if err := xml.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to decode BGG response: %w", err)
	}

	games := make([]dataset.Game, 0, len(items.Items))
	for _, item := range items.Items {
		g := dataset.Game{
			ID:            item.ID,
			Name:          primaryName(item.Names),
			YearPublished: atoi(item.YearPub.Value),
			MinPlayers:    atoi(item.MinPlayers.Value),
			MaxPlayers:    atoi(item.MaxPlayers.Value),
			MinPlaytime:   atoi(item.MinPlay.Value),
			MaxPlaytime:   atoi(item.MaxPlay.Value),
			PlayingTime:   atoi(item.Playing.Value),
			MinAge:        atoi(item.MinAge.Value),
			Thumbnail:     item.Thumbnail,
			Image:         item.Image,
		}
		if item.Statistics != nil {
			g.UsersRated = atoi(item.Statistics.Ratings.UsersRated.Value)
			g.AverageRating = atof(item.Statistics.Ratings.Average.Value)
		}
		for _, link := range item.Links {
			switch link.Type {
			case "boardgamecategory":
				g.Category = append(g.Category, link.Value)
			case "boardgamemechanic":
				g.Mechanic = append(g.Mechanic, link.Value)
			case "boardgamepublisher":
				g.Publisher = append(g.Publisher, link.Value)
			case "boardgamedesigner":
				g.Designer = append(g.Designer, link.Value)
			case "boardgameartist":
				g.Artist = append(g.Artist, link.Value)
			case "boardgamefamily":
				g.Family = append(g.Family, link.Value)
			case "boardgameexpansion":
				g.Expansion = append(g.Expansion, link.Value)
			case "boardgamecompilation":
				g.Compilation = append(g.Compilation, link.Value)
			}
		}
		games = append(games, g)
	}
	return games, nil
}

// primaryName picks the primary name, falling back to the first one listed.
func primaryName(names []xmlName) string {
	for _, n := range names {
		if n.Type == "primary" {
			return n.Value
		}
	}
	if len(names) > 0 {
		return names[0].Value
	}
	return ""
}

func atoi(s string) int {
	v, _ := strconv.Atoi(s)
	return v
}

func atof(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}
