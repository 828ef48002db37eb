package models

import "time"

type CharacterRole string

const (
	RolePlayer   CharacterRole = "Player"
	RoleStaff    CharacterRole = "Staff"
	RoleCivilian CharacterRole = "Civilian"
)

// Valid reports whether r is one of the three known roles.
func (r CharacterRole) Valid() bool {
	switch r {
	case RolePlayer, RoleStaff, RoleCivilian:
		return true
	}
	return false
}

type Character struct {
	ID           int           `json:"id" db:"id"`
	Name         string        `json:"name" db:"name"`
	Nickname     *string       `json:"nickname,omitempty" db:"nickname"`
	Age          *int          `json:"age,omitempty" db:"age"`
	Birthday     *time.Time    `json:"birthday,omitempty" db:"birthday"`
	Zodiac       *string       `json:"zodiac,omitempty" db:"zodiac"`
	Hometown     *string       `json:"hometown,omitempty" db:"hometown"`
	Education    *string       `json:"education,omitempty" db:"education"`
	Occupation   *string       `json:"occupation,omitempty" db:"occupation"`
	Sexuality    *string       `json:"sexuality,omitempty" db:"sexuality"`
	Pronouns     *string       `json:"pronouns,omitempty" db:"pronouns"`
	Languages    *string       `json:"languages,omitempty" db:"languages"`
	Religion     *string       `json:"religion,omitempty" db:"religion"`
	Gender       *string       `json:"gender,omitempty" db:"gender"`
	URL          *string       `json:"url,omitempty" db:"url"`
	Role         CharacterRole `json:"role" db:"role"`
	Position     *string       `json:"position,omitempty" db:"position"`
	JerseyNumber *int          `json:"jersey_number,omitempty" db:"jersey_number"`
	TeamID       *int          `json:"team_id,omitempty" db:"team_id"`
	Job          *string       `json:"job,omitempty" db:"job"`
	Bio          *string       `json:"bio,omitempty" db:"bio"`
	Faceclaim    *string       `json:"faceclaim,omitempty" db:"faceclaim"`
	AvatarURL    *string       `json:"avatar_url,omitempty" db:"avatar_url"`
	BannerURL    *string       `json:"banner_url,omitempty" db:"banner_url"`
	SidebarURL   *string       `json:"sidebar_url,omitempty" db:"sidebar_url"`
	SpotifyEmbed *string       `json:"spotify_embed,omitempty" db:"spotify_embed"`
	Quote        *string       `json:"quote,omitempty" db:"quote"`
	Personality  *string       `json:"personality,omitempty" db:"personality"`
	Strengths    *string       `json:"strengths,omitempty" db:"strengths"`
	Weaknesses   *string       `json:"weaknesses,omitempty" db:"weaknesses"`
	Likes        *string       `json:"likes,omitempty" db:"likes"`
	Dislikes     *string       `json:"dislikes,omitempty" db:"dislikes"`
	Fears        *string       `json:"fears,omitempty" db:"fears"`
	Goals        *string       `json:"goals,omitempty" db:"goals"`
	Appearance   *string       `json:"appearance,omitempty" db:"appearance"`
	Background   *string       `json:"background,omitempty" db:"background"`
	Skills       *string       `json:"skills,omitempty" db:"skills"`
	FavFood      *string       `json:"fav_food,omitempty" db:"fav_food"`
	FavMusic     *string       `json:"fav_music,omitempty" db:"fav_music"`
	FavMovies    *string       `json:"fav_movies,omitempty" db:"fav_movies"`
	FavColor     *string       `json:"fav_color,omitempty" db:"fav_color"`
	FavSports    *string       `json:"fav_sports,omitempty" db:"fav_sports"`
	Inspiration  *string       `json:"inspiration,omitempty" db:"inspiration"`
	FullBio      *string       `json:"full_bio,omitempty" db:"full_bio"`
	IsPrivate    bool          `json:"is_private" db:"is_private"`
	IsArchived   bool          `json:"is_archived" db:"is_archived"`

	// GalleryRaw is the serialized gallery text exactly as stored. Use
	// ParseGallery to get the structured form.
	GalleryRaw *string `json:"-" db:"gallery"`

	CreatedBy int       `json:"created_by" db:"created_by"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	Team    *Team `json:"team,omitempty" db:"-"`
	Creator *User `json:"creator,omitempty" db:"-"`
}

// CharacterRef is the slim shape used when a character appears as the far
// end of a connection or in pick lists.
type CharacterRef struct {
	ID        int     `json:"id" db:"id"`
	Name      string  `json:"name" db:"name"`
	AvatarURL *string `json:"avatar_url,omitempty" db:"avatar_url"`
}
