package domains

type Appointment struct {
	ID       string  `db:"id" json:"id"`
	ArtistID string  `db:"artist_id" json:"artistId"`
	Services []int64 `db:"services" json:"services"`
}
