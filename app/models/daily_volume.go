package models

// SportCategories lists the sports tracked per day, in column order.
var SportCategories = []string{"nfl", "mlb", "nba", "wnba", "nhl", "soccer", "golf", "motorsport", "tennis", "ncaam", "ncaaw", "ncaaf"}

// DailyVolume is one row of the daily_volumes table.
type DailyVolume struct {
	Date             string  `json:"date" gorm:"primaryKey;type:date"`
	TotalVolume      int64   `json:"total_volume"`
	SportsVolume     int64   `json:"sports_volume"`
	SportsPct        float64 `json:"sports_pct"`
	NFLVolume        int64   `json:"nfl_volume" gorm:"column:nfl_volume"`
	MLBVolume        int64   `json:"mlb_volume" gorm:"column:mlb_volume"`
	NBAVolume        int64   `json:"nba_volume" gorm:"column:nba_volume"`
	WNBAVolume       int64   `json:"wnba_volume" gorm:"column:wnba_volume"`
	NHLVolume        int64   `json:"nhl_volume" gorm:"column:nhl_volume"`
	SoccerVolume     int64   `json:"soccer_volume"`
	GolfVolume       int64   `json:"golf_volume"`
	MotorsportVolume int64   `json:"motorsport_volume"`
	TennisVolume     int64   `json:"tennis_volume"`
	NCAAMVolume      int64   `json:"ncaam_volume" gorm:"column:ncaam_volume"`
	NCAAWVolume      int64   `json:"ncaaw_volume" gorm:"column:ncaaw_volume"`
	NCAAFVolume      int64   `json:"ncaaf_volume" gorm:"column:ncaaf_volume"`
}

func (DailyVolume) TableName() string {
	return "daily_volumes"
}

// AddSport adds q to the counter of the given sport. Unknown sports are ignored.
func (d *DailyVolume) AddSport(sport string, q int64) {
	switch sport {
	case "nfl":
		d.NFLVolume += q
	case "mlb":
		d.MLBVolume += q
	case "nba":
		d.NBAVolume += q
	case "wnba":
		d.WNBAVolume += q
	case "nhl":
		d.NHLVolume += q
	case "soccer":
		d.SoccerVolume += q
	case "golf":
		d.GolfVolume += q
	case "motorsport":
		d.MotorsportVolume += q
	case "tennis":
		d.TennisVolume += q
	case "ncaam":
		d.NCAAMVolume += q
	case "ncaaw":
		d.NCAAWVolume += q
	case "ncaaf":
		d.NCAAFVolume += q
	}
}
