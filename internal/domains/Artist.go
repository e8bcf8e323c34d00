package domains

type Artist struct {
	ID              string  `db:"user_id" json:"userId"`
	OfferedServices []int64 `db:"offered_services" json:"offeredServices"`
}
