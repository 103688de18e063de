package entity

type Category struct {
	BaseSimple
	Name        string `db:"name"`
	Slug        string `db:"slug"`
	Description string `db:"description"`
	PostCount   int64  `db:"post_count"`
}
