package model

// Collection names in the document store.
const (
	CollectionUsers         = "users"
	CollectionHotels        = "hotels"
	CollectionReservations  = "reservations"
	CollectionComments      = "comments"
	CollectionHomepage      = "homepage"
	CollectionUpdateAccount = "updateaccount"
	CollectionRefreshTokens = "refreshTokens"
	// CollectionUserEmails reserves an email address, keyed by the
	// lower-cased address, for the user in its "userId" field.
	CollectionUserEmails = "userEmails"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

const (
	LevelBasic    = 1
	LevelVerified = 2
)
