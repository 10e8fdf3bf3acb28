package news

import "errors"

// ErrFetchNews is returned when the market data API cannot be reached or
// returns an error. Callers see a stable sentinel instead of provider
// detail so the failure mode is uniform across company and general paths.
var ErrFetchNews = errors.New("failed to fetch news")
