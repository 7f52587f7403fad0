package service

import (
	"context"
	"sync"

	"movie-discovery-service/internal/model"

	"github.com/rs/zerolog/log"
)

// Detail is everything the detail page shows for one movie
type Detail struct {
	Movie    *model.MovieDetail
	Credits  *model.Credits
	Videos   *model.VideoList
	Similar  *model.MoviePage
	Director *model.CrewMember
	Writers  []string
	Trailer  *model.Video
}

// Detail fetches the movie record, credits, videos and the first page of
// similar movies in parallel. Any failure fails the whole detail.
func (s *TMDBService) Detail(ctx context.Context, id int) (*Detail, error) {
	var (
		detail Detail
		errs   [4]error
		wg     sync.WaitGroup
	)
	wg.Add(4)

	go func() {
		defer wg.Done()
		detail.Movie, errs[0] = s.Movie(ctx, id)
	}()

	go func() {
		defer wg.Done()
		detail.Credits, errs[1] = s.Credits(ctx, id)
	}()

	go func() {
		defer wg.Done()
		detail.Videos, errs[2] = s.Videos(ctx, id)
	}()

	go func() {
		defer wg.Done()
		detail.Similar, errs[3] = s.Similar(ctx, id, 1)
	}()

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			log.Warn().Err(err).Int("id", id).Msg("TMDB: detail fetch failed")
			return nil, err
		}
	}

	detail.Director = detail.Credits.Director()
	detail.Writers = detail.Credits.Writers()
	detail.Trailer = detail.Videos.Trailer()

	return &detail, nil
}
