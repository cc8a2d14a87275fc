package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("TMDB_API_KEY", "tmdb-key")
	t.Setenv("JWT_KEY", "a-signing-key-that-is-long-enough-for-hs256")
	t.Setenv("JWT_ISSUER", "movie-discovery")
	t.Setenv("JWT_AUDIENCE", "movie-discovery-web")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "https://api.themoviedb.org/3", cfg.TMDB.BaseURL)
	assert.Equal(t, "https://image.tmdb.org/t/p/", cfg.TMDB.ImageBaseURL)
	assert.Equal(t, 15*time.Second, cfg.TMDB.Timeout)
	assert.Equal(t, time.Hour, cfg.JWT.TTL)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORSAllowOrigins)
	assert.Equal(t, 20, cfg.RateLimit.Max)
}

func TestLoad_MissingRequired(t *testing.T) {
	for _, key := range []string{"TMDB_API_KEY", "JWT_KEY", "JWT_ISSUER", "JWT_AUDIENCE"} {
		t.Run(key, func(t *testing.T) {
			setRequired(t)
			t.Setenv(key, "")

			_, err := Load()
			require.ErrorIs(t, err, ErrMissingSetting)
			assert.Contains(t, err.Error(), key)
		})
	}
}

func TestLoad_InvalidTimeout(t *testing.T) {
	setRequired(t)
	t.Setenv("TMDB_TIMEOUT", "soon")

	_, err := Load()
	assert.Error(t, err)
}

func TestDBConfig_DSN(t *testing.T) {
	d := DBConfig{Host: "db", Port: 5432, User: "u", Password: "p", DBName: "movies", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=movies sslmode=disable", d.DSN())

	d.SSLRootCert = "/certs/ca.pem"
	assert.Contains(t, d.DSN(), " sslrootcert=/certs/ca.pem")

	d.URL = "postgres://u:p@db/movies"
	assert.Equal(t, "postgres://u:p@db/movies", d.DSN())
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitList(" a, ,b "))
	assert.Nil(t, splitList(""))
}
