package service

import (
	"context"

	"movie-discovery-service/internal/model"
	"movie-discovery-service/internal/paging"
)

// ListSource pages through a fixed list; the filter is ignored
func (s *TMDBService) ListSource(kind ListKind) paging.Source {
	return paging.SourceFunc(func(ctx context.Context, _ paging.Filter, page int) (*model.MoviePage, error) {
		return s.List(ctx, kind, page)
	})
}

// SimilarSource pages through movies similar to id; the filter is ignored
func (s *TMDBService) SimilarSource(id int) paging.Source {
	return paging.SourceFunc(func(ctx context.Context, _ paging.Filter, page int) (*model.MoviePage, error) {
		return s.Similar(ctx, id, page)
	})
}

// BrowseSource pages through discovery or search results chosen by the filter
func (s *TMDBService) BrowseSource() paging.Source {
	return paging.SourceFunc(s.Browse)
}

// NewCollection creates a collection over source that reports TMDB error text
func NewCollection(source paging.Source, opts ...paging.Option) *paging.Collection {
	opts = append([]paging.Option{paging.WithErrorText(ErrorText)}, opts...)
	return paging.NewCollection(source, opts...)
}
