package vo

type Structure struct {
	Title       string
	Description string
	Canonical   string
	// <link rel="canonical" href="https://www.example.com/page">
}
