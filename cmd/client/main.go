package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/joho/godotenv"

	"movie-discovery-api/internal/client"
)

const usage = `Usage: movie-client [flags] <command> [args]

Commands:
  latest                        movies now playing
  top-rated                     top rated movies
  movie <id>                    movie details with cast, images and comments
  search [-q text] [-genre id] [-page n]
  genres                        all genres
  comments <movieId>            comments of a movie
  comment <movieId> <text>      post a comment (signed in)
  delete-comment <id>           delete one of your comments (signed in)
  login -u user -p password
  register -u user -email addr -p password
  logout
  whoami

Flags:
`

func main() {
	_ = godotenv.Load()

	fs := flag.NewFlagSet("movie-client", flag.ExitOnError)
	apiURL := fs.String("api", envOr("MOVIE_API_URL", "http://localhost:8080/api/v1"), "API base URL")
	sessionPath := fs.String("session", envOr("MOVIE_SESSION_FILE", defaultSessionPath()), "session file")
	fs.Usage = func() {
		fmt.Fprint(fs.Output(), usage)
		fs.PrintDefaults()
	}
	_ = fs.Parse(os.Args[1:])

	if fs.NArg() == 0 {
		fs.Usage()
		os.Exit(2)
	}

	store := client.NewAuthStore(*sessionPath)
	if err := store.Load(); err != nil {
		fail(err)
	}
	c := client.New(*apiURL, store)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, c, fs.Arg(0), fs.Args()[1:]); err != nil {
		fail(err)
	}
}

func run(ctx context.Context, c *client.Client, cmd string, args []string) error {
	switch cmd {
	case "latest":
		return printResult(c.Latest(ctx))
	case "top-rated":
		return printResult(c.TopRated(ctx))
	case "genres":
		return printResult(c.Genres(ctx))
	case "movie":
		id, err := intArg(args, 0, "movie id")
		if err != nil {
			return err
		}
		return printResult(c.Movie(ctx, id))
	case "comments":
		id, err := intArg(args, 0, "movie id")
		if err != nil {
			return err
		}
		return printResult(c.Comments(ctx, id))
	case "search":
		sf := flag.NewFlagSet("search", flag.ExitOnError)
		query := sf.String("q", "", "title search")
		genre := sf.Int("genre", 0, "genre id")
		page := sf.Int("page", 1, "page number")
		_ = sf.Parse(args)
		return printResult(c.Search(ctx, *query, *genre, *page))
	case "comment":
		id, err := intArg(args, 0, "movie id")
		if err != nil {
			return err
		}
		if len(args) < 2 {
			return errors.New("missing comment text")
		}
		return printResult(c.AddComment(ctx, id, strings.Join(args[1:], " ")))
	case "delete-comment":
		id, err := intArg(args, 0, "comment id")
		if err != nil {
			return err
		}
		if err := c.DeleteComment(ctx, id); err != nil {
			return err
		}
		fmt.Println("comment deleted")
		return nil
	case "login":
		lf := flag.NewFlagSet("login", flag.ExitOnError)
		user := lf.String("u", "", "username")
		pass := lf.String("p", "", "password")
		_ = lf.Parse(args)
		session, err := c.Login(ctx, *user, *pass)
		if err != nil {
			return err
		}
		fmt.Printf("signed in as %s\n", session.Username)
		return nil
	case "register":
		rf := flag.NewFlagSet("register", flag.ExitOnError)
		user := rf.String("u", "", "username")
		email := rf.String("email", "", "email address")
		pass := rf.String("p", "", "password")
		_ = rf.Parse(args)
		msg, err := c.Register(ctx, *user, *email, *pass)
		if err != nil {
			return err
		}
		fmt.Println(msg)
		return nil
	case "logout":
		if err := c.Logout(); err != nil {
			return err
		}
		fmt.Println("signed out")
		return nil
	case "whoami":
		return printResult(c.Me(ctx))
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func printResult[T any](v T, err error) error {
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func intArg(args []string, i int, name string) (int, error) {
	if len(args) <= i {
		return 0, fmt.Errorf("missing %s", name)
	}
	n, err := strconv.Atoi(args[i])
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, args[i])
	}
	return n, nil
}

func defaultSessionPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "movie-discovery", "session.json")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func fail(err error) {
	slog.Error("command failed", "error", err)
	os.Exit(1)
}
