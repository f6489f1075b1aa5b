package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/adrg/xdg"

	"github.com/sangeet-player/sangeet/internal/app"
	"github.com/sangeet-player/sangeet/internal/blobcache"
	"github.com/sangeet-player/sangeet/internal/catalog"
	"github.com/sangeet-player/sangeet/internal/config"
	"github.com/sangeet-player/sangeet/internal/downloads"
	"github.com/sangeet-player/sangeet/internal/errmsg"
	"github.com/sangeet-player/sangeet/internal/mpris"
	"github.com/sangeet-player/sangeet/internal/notify"
	"github.com/sangeet-player/sangeet/internal/player"
	"github.com/sangeet-player/sangeet/internal/playlist"
	"github.com/sangeet-player/sangeet/internal/search"
	"github.com/sangeet-player/sangeet/internal/state"
	"github.com/sangeet-player/sangeet/internal/store"
	"github.com/sangeet-player/sangeet/internal/translit"
)

func main() {
	linkType := flag.String("type", "", "deep link type: search, artist or song_id")
	linkData := flag.String("data", "", "deep link payload")
	refresh := flag.Bool("refresh", false, "refetch the song catalog even if cached")
	flag.Parse()

	if err := run(*linkType, *linkData, *refresh); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(linkType, linkData string, refresh bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("%s", errmsg.Format(errmsg.OpInitialize, err))
	}

	repo, err := store.Open()
	if err != nil {
		return fmt.Errorf("%s", errmsg.Format(errmsg.OpInitialize, err))
	}
	defer repo.Close()

	songs, err := loadCatalog(ctx, cfg, repo, refresh, log)
	if err != nil {
		return fmt.Errorf("%s", errmsg.Format(errmsg.OpCatalogLoad, err))
	}
	log.Info("catalog ready", "songs", len(songs))

	stateMgr, err := state.Open()
	if err != nil {
		return fmt.Errorf("%s", errmsg.Format(errmsg.OpInitialize, err))
	}
	defer stateMgr.Close()

	cacheDir := filepath.Join(xdg.CacheHome, "sangeet", "blobs")
	cache, err := blobcache.New(cacheDir, cfg.Cache.MaxEntries, nil)
	if err != nil {
		return fmt.Errorf("%s", errmsg.Format(errmsg.OpInitialize, err))
	}

	var remote search.RemoteTransliterator
	if cfg.GoogleTransliteration {
		remote = translit.NewGoogleClient()
	}
	engine := search.NewEngine(translit.Identity, remote)

	sel := playlist.New(songs, engine, selectionOptions(cfg))
	sel.LoadInitial(ctx, playlist.DeepLink{
		Type: playlist.DeepLinkType(linkType),
		Data: linkData,
	})

	notifier, err := notify.New()
	if err != nil {
		notifier = nil
	}

	dl := downloads.New(cache, cfg.DownloadFolder, log)

	a, err := app.New(app.Deps{
		Selection: sel,
		Player:    player.New(),
		Cache:     cache,
		Downloads: dl,
		State:     stateMgr,
		Notifier:  notifier,
		Log:       log,
	})
	if err != nil {
		return fmt.Errorf("%s", errmsg.Format(errmsg.OpInitialize, err))
	}
	defer a.Close()

	adapter, err := mpris.New(a)
	if err != nil {
		log.Warn("mpris unavailable", "error", err)
	} else {
		defer adapter.Close()
	}

	go repl(ctx, a, log)

	<-ctx.Done()
	return nil
}

// selectionOptions maps config tunables onto the selection machine.
// debounce_ms = 0 applies query edits immediately.
func selectionOptions(cfg *config.Config) playlist.Options {
	return playlist.Options{
		Debounce: time.Duration(cfg.Search.DebounceMs) * time.Millisecond,
	}
}

// loadCatalog serves the cached catalog when present, fetching and
// ingesting the manifest on first run or when a refresh is forced.
func loadCatalog(ctx context.Context, cfg *config.Config, repo *store.Store, refresh bool, log *slog.Logger) ([]catalog.Song, error) {
	if !refresh {
		if n, err := repo.Count(); err == nil && n > 0 {
			return repo.GetAll()
		}
	}

	client := catalog.NewClient(cfg.ManifestURL)
	records, err := client.FetchManifest(ctx)
	if err != nil {
		// Fall back to whatever is cached rather than failing startup.
		if n, cErr := repo.Count(); cErr == nil && n > 0 {
			log.Warn(errmsg.Format(errmsg.OpCatalogRefresh, err))
			return repo.GetAll()
		}
		return nil, err
	}

	songs := catalog.Ingest(records, catalog.IngestOptions{
		AssetHost:      cfg.AssetHost,
		FallbackArtist: cfg.FallbackArtist,
	})

	if err := repo.ReplaceAll(songs); err != nil {
		log.Warn("catalog cache write failed", "error", err)
	}
	return songs, nil
}

// repl drives the app from stdin: one command per line. It exists so
// the headless shell is usable without media keys.
func repl(ctx context.Context, a *app.App, log *slog.Logger) {
	scanner := bufio.NewScanner(os.Stdin)
	printHelp()

	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		cmd, arg, _ := strings.Cut(line, " ")
		arg = strings.TrimSpace(arg)

		switch cmd {
		case "help":
			printHelp()
		case "play":
			var err error
			if arg != "" {
				err = a.PlaySong(ctx, arg)
			} else {
				err = a.PlayCurrent(ctx)
			}
			if err != nil {
				log.Error(errmsg.Format(errmsg.OpPlaybackStart, err))
			}
		case "pause", "toggle":
			if err := a.PlayPause(); err != nil {
				log.Error(errmsg.Format(errmsg.OpPlaybackStart, err))
			}
		case "next":
			if err := a.Next(); err != nil {
				log.Error(errmsg.Format(errmsg.OpPlaybackStart, err))
			}
		case "prev":
			if err := a.Prev(); err != nil {
				log.Error(errmsg.Format(errmsg.OpPlaybackStart, err))
			}
		case "stop":
			a.Stop()
		case "search":
			a.SetQuery(arg)
			printSongs(a.ActiveSet())
		case "mode":
			m := search.ParseMode(arg)
			a.SetMode(m)
			fmt.Println("mode:", m)
		case "artist":
			a.SetArtistFilter(arg)
			printSongs(a.ActiveSet())
		case "reset":
			a.ResetToDefault()
			printSongs(a.ActiveSet())
		case "list":
			printSongs(a.ActiveSet())
		case "lyrics":
			fmt.Println(a.CurrentLyrics())
		case "like":
			liked, err := a.ToggleLike()
			if err != nil {
				log.Error(err.Error())
			} else if liked {
				fmt.Println("liked")
			} else {
				fmt.Println("unliked")
			}
		case "favorites":
			songs, err := a.Favorites()
			if err != nil {
				log.Error(err.Error())
			} else {
				printSongs(songs)
			}
		case "download":
			asMP3 := arg != "opus"
			if _, err := a.Download(ctx, asMP3); err != nil {
				log.Error(errmsg.Format(errmsg.OpDownloadStart, err))
			}
		case "share":
			if err := a.Share(); err != nil {
				log.Error(err.Error())
			}
		case "theme":
			a.SetTheme(state.Theme(arg))
		case "language":
			a.SetLanguage(catalog.Language(arg))
		case "quit", "exit":
			return
		default:
			fmt.Printf("unknown command %q (try help)\n", cmd)
		}
	}
}

func printSongs(songs []catalog.Song) {
	if len(songs) == 0 {
		fmt.Println("(no songs)")
		return
	}
	for _, song := range songs {
		marker := " "
		if !song.HasAudio() {
			marker = "-"
		}
		fmt.Printf("%s %4s  %s - %s\n", marker, song.ID, song.Title, song.Artist)
	}
}

func printHelp() {
	fmt.Println(`commands:
  play [id]      play current (or given) song
  pause          toggle play/pause
  next / prev    navigate the active set
  search <q>     set the search query
  mode <m>       all | title | artist | info | lyrics
  artist <name>  filter by artist
  reset          back to the default set
  list           show the active set
  lyrics         show current lyrics
  like           toggle favorite
  favorites      list favorites
  download [opus] export current song (mp3 by default)
  share          copy a deep link
  theme <t>      midnight | ocean | sunset | forest | candy
  language <l>   english | hindi | gujarati
  quit`)
}
