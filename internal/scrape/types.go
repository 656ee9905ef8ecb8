// Package scrape implements the IMDB listing and detail-page extraction
// pipeline: infinite-scroll loading, link collection, and defensive
// per-field parsing of rendered HTML.
package scrape

// Sentinel is the placeholder recorded when a field cannot be extracted.
const Sentinel = "N/A"

// Selectors verified against the current IMDB page structure.
const (
	// TitleItemSelector counts result entries on the listing page.
	TitleItemSelector = "a.ipc-title-link-wrapper"
	// SeeMoreSelector is the listing page's "load more" control.
	SeeMoreSelector = "button.ipc-see-more__button"
	// ReviewContainerSelector wraps one user review on the reviews page.
	ReviewContainerSelector = "article.user-review-item"

	titleLinkSelector  = `a.ipc-title-link-wrapper[href*="/title/tt"]`
	titleSelector      = "h1[data-testid='hero__pageTitle']"
	yearSelector       = "a[href*='releaseinfo']"
	genreSelector      = "a.ipc-chip span.ipc-chip__text"
	ratingSelector     = "div[data-testid='hero-rating-bar__aggregate-rating__score'] span"
	castSelector       = "a[data-testid*='title-cast-item__actor']"
	reviewBodySelector = "div.ipc-html-content-inner-div"
	userRatingSelector = "span.ipc-rating-star--rating"
	upVoteSelector     = "span.ipc-voting__label__count--up"
	downVoteSelector   = "span.ipc-voting__label__count--down"

	allReviewsSelector = `//button[.//span[contains(., 'All Reviews')]]`
	spoilerSelector    = "button.review-spoiler-button[aria-label='Expand Spoiler']"
)

// maxCast bounds how many cast members are recorded per movie.
const maxCast = 3

// MovieMetadata holds the fields extracted once per detail page.
// Immutable after extraction; shared read-only by every review of the movie.
type MovieMetadata struct {
	Title    string
	Year     string
	Genres   []string
	Rating   string
	Director string
	Cast     []string
}

// Review pairs a movie's metadata snapshot with one user review.
// Written once to the output sink and then discarded.
type Review struct {
	Movie      MovieMetadata
	UserRating string
	Text       string
	Helpful    string
}
