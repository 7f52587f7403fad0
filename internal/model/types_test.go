package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectorPicksFirstMatch(t *testing.T) {
	credits := Credits{Crew: []CrewMember{
		{Name: "Jane Editor", Job: "Editor"},
		{Name: "Lana Wachowski", Job: JobDirector},
		{Name: "Lilly Wachowski", Job: JobDirector},
	}}

	director := credits.Director()
	require.NotNil(t, director)
	assert.Equal(t, "Lana Wachowski", director.Name)
}

func TestDirectorAbsent(t *testing.T) {
	credits := Credits{Crew: []CrewMember{{Name: "Someone", Job: "Producer"}}}
	assert.Nil(t, credits.Director())
}

func TestWriters(t *testing.T) {
	credits := Credits{Crew: []CrewMember{
		{Name: "A", Job: JobWriter},
		{Name: "B", Job: "Screenplay"},
		{Name: "C", Job: JobWriter},
	}}
	assert.Equal(t, []string{"A", "C"}, credits.Writers())

	empty := Credits{}
	assert.Empty(t, empty.Writers())
	assert.NotNil(t, empty.Writers())
}

func TestTrailerPrefersYouTube(t *testing.T) {
	videos := VideoList{Results: []Video{
		{Key: "t1", Site: "Vimeo", Type: VideoTypeTrailer},
		{Key: "f1", Site: SiteYouTube, Type: "Featurette"},
		{Key: "t2", Site: SiteYouTube, Type: VideoTypeTrailer},
	}}

	trailer := videos.Trailer()
	require.NotNil(t, trailer)
	assert.Equal(t, "t2", trailer.Key)
}

func TestTrailerFallsBackToOtherSite(t *testing.T) {
	videos := VideoList{Results: []Video{
		{Key: "t1", Site: "Vimeo", Type: VideoTypeTrailer},
	}}
	require.NotNil(t, videos.Trailer())
	assert.Equal(t, "t1", videos.Trailer().Key)

	none := VideoList{Results: []Video{{Key: "c", Site: SiteYouTube, Type: "Clip"}}}
	assert.Nil(t, none.Trailer())
}

func TestMovieNullImagePaths(t *testing.T) {
	var m Movie
	err := json.Unmarshal([]byte(`{"id":1,"title":"X","poster_path":null,"backdrop_path":"/b.jpg"}`), &m)
	require.NoError(t, err)

	assert.Equal(t, "", PathOf(m.PosterPath))
	assert.Equal(t, "/b.jpg", PathOf(m.BackdropPath))
}
