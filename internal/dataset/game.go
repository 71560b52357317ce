package dataset

// Column identifies one of the list-valued columns a game can be filtered
// or grouped on.
type Column string

const (
	ColCategory  Column = "category"
	ColMechanic  Column = "mechanic"
	ColPublisher Column = "publisher"
	ColDesigner  Column = "designer"
	ColArtist    Column = "artist"
	ColFamily    Column = "family"
)

// Game is a single board game record, one row of board_game.csv.
type Game struct {
	ID            int
	Name          string
	YearPublished int
	MinPlayers    int
	MaxPlayers    int
	MinPlaytime   int
	MaxPlaytime   int
	PlayingTime   int
	MinAge        int
	UsersRated    int
	AverageRating float64
	Thumbnail     string
	Image         string
	Category      []string
	Mechanic      []string
	Publisher     []string
	Designer      []string
	Artist        []string
	Family        []string
	Expansion     []string
	Compilation   []string
}

// Values returns the game's entries for a list column.
func (g *Game) Values(col Column) []string {
	switch col {
	case ColCategory:
		return g.Category
	case ColMechanic:
		return g.Mechanic
	case ColPublisher:
		return g.Publisher
	case ColDesigner:
		return g.Designer
	case ColArtist:
		return g.Artist
	case ColFamily:
		return g.Family
	}
	return nil
}

// Table is an ordered collection of games.
type Table []Game

// Grouped is a game annotated with the selection groups it belongs to.
type Grouped struct {
	Game
	Group []string
}

// PlotRecord is the reduced projection used for time-series reporting: the
// columns that survive after everything irrelevant to plotting is dropped.
type PlotRecord struct {
	Name          string  `json:"name"`
	YearPublished int     `json:"year_published"`
	AverageRating float64 `json:"average_rating"`
	Group         string  `json:"group,omitempty"`
}
