package main

import (
	"bufio"
	"campus-activity-service/internal/adapters/eventsapi"
	"campus-activity-service/internal/adapters/geocoding"
	"campus-activity-service/internal/adapters/gmaps"
	"campus-activity-service/internal/adapters/maprender"
	"campus-activity-service/internal/adapters/places"
	"campus-activity-service/internal/adapters/sensor"
	"campus-activity-service/internal/config"
	"campus-activity-service/internal/discovery"
	"campus-activity-service/internal/domain"
	"campus-activity-service/internal/ports"
	"context"
	"flag"
	"fmt"
	"image/png"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

const usage = `commands:
  q <text>                 filter by text
  category <name>          place type or event category ("all" clears)
  radius <meters>          search radius
  date <preset> [YYYY-MM-DD]  today|tomorrow|this_week|this_weekend|next_week|custom|none
  view places|events       switch view
  fav <id> / unfav <id>    toggle a favorite place
  favs                     list favorites
  retry                    retry location
  map                      write a PNG of the current markers
  show                     print the current view
  quit`

// discover is a terminal driver for the nearby discovery controller.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	apiURL := flag.String("api", "", "campus activity API base URL for stored events")
	latFlag := flag.String("lat", "", "fixed latitude (omit for no location sensor)")
	lngFlag := flag.String("lng", "", "fixed longitude")
	out := flag.String("out", "map.png", "PNG path written by the map command")
	flag.Parse()

	lat, lng, err := parseLocation(*latFlag, *lngFlag)
	if err != nil {
		log.Fatal(err)
	}

	key := config.Get("GOOGLE_MAPS_API_KEY", "")
	client, err := gmaps.NewClient(key)
	if err != nil {
		log.Fatal(err)
	}
	provider, err := places.NewGooglePlacesProvider(client)
	if err != nil {
		log.Fatal(err)
	}
	geocoder, err := geocoding.NewGoogleGeocoder(client)
	if err != nil {
		log.Fatal(err)
	}

	var events ports.EventLister
	if *apiURL != "" {
		c, err := eventsapi.NewClient(*apiURL)
		if err != nil {
			log.Fatal(err)
		}
		events = c
	}

	search, err := discovery.NewSearchClient(
		provider,
		events,
		geocoder,
		discovery.NewSynthesizer(uint64(time.Now().UnixNano()), nil),
	)
	if err != nil {
		log.Fatal(err)
	}

	surface := maprender.NewStaticRenderer(key)
	p := &printer{w: os.Stdout}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ctrl, err := discovery.NewController(ctx, discovery.Options{
		Search:   search,
		Sensor:   sensor.FromFlags(lat, lng),
		Surface:  surface,
		OnChange: p.summary,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer ctrl.Close()

	if err := ctrl.MountMap(ctx); err != nil {
		log.Printf("map unavailable: %v", err)
	}
	ctrl.Start()

	fmt.Println(usage)
	run(ctx, ctrl, surface, p, *out, os.Stdin)
}

func parseLocation(lat, lng string) (*float64, *float64, error) {
	if lat == "" && lng == "" {
		return nil, nil, nil
	}
	la, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid -lat: %w", err)
	}
	ln, err := strconv.ParseFloat(lng, 64)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid -lng: %w", err)
	}
	return &la, &ln, nil
}

func run(
	ctx context.Context,
	ctrl *discovery.Controller,
	surface *maprender.StaticRenderer,
	p *printer,
	out string,
	in io.Reader,
) {
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		cmd, arg, _ := strings.Cut(strings.TrimSpace(sc.Text()), " ")
		arg = strings.TrimSpace(arg)

		switch cmd {
		case "":
		case "q":
			ctrl.SetQuery(arg)
		case "category":
			ctrl.SetCategory(strings.ToLower(arg))
		case "radius":
			n, err := strconv.Atoi(arg)
			if err != nil || n <= 0 {
				p.line("radius must be a positive number of meters")
				continue
			}
			ctrl.SetRadius(n)
		case "date":
			f, err := parseDate(arg)
			if err != nil {
				p.line(err.Error())
				continue
			}
			ctrl.SetDateFilter(f)
		case "view":
			mode, err := domain.ParseViewMode(arg)
			if err != nil {
				p.line(err.Error())
				continue
			}
			ctrl.SetViewMode(mode)
		case "fav", "unfav":
			if !ctrl.ToggleFavorite(arg, cmd == "fav") {
				p.line("favorites unchanged")
			}
		case "favs":
			for _, f := range ctrl.View().Favorites {
				p.line(fmt.Sprintf("  * %s  %s", f.ID, f.Name))
			}
		case "retry":
			if err := ctrl.RetryLocation(); err != nil {
				p.line("location: " + err.Error())
			}
		case "map":
			if err := writeMap(ctx, surface, out); err != nil {
				p.line("map: " + err.Error())
				continue
			}
			p.line("wrote " + out)
		case "show":
			p.full(ctrl.View())
		case "quit", "exit":
			return
		default:
			p.line(usage)
		}
	}
}

func parseDate(arg string) (*domain.DateFilter, error) {
	preset, day, _ := strings.Cut(arg, " ")
	if preset == "" || preset == "none" {
		return nil, nil
	}
	p, err := domain.ParseDatePreset(preset)
	if err != nil {
		return nil, err
	}
	f := &domain.DateFilter{Preset: p}
	if p == domain.DateCustom {
		d, err := time.ParseInLocation(time.DateOnly, strings.TrimSpace(day), time.Local)
		if err != nil {
			return nil, fmt.Errorf("custom date needs YYYY-MM-DD: %w", err)
		}
		f.Day = d
	}
	return f, nil
}

func writeMap(ctx context.Context, surface *maprender.StaticRenderer, path string) error {
	img, err := surface.Snapshot(ctx)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// printer serializes output from controller callbacks and the command loop.
type printer struct {
	mu sync.Mutex
	w  io.Writer
}

func (p *printer) line(s string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.w, s)
}

func (p *printer) summary(v discovery.View) {
	var b strings.Builder
	switch {
	case v.RequestingLocation:
		b.WriteString("locating...")
	case v.LocationError != "":
		fmt.Fprintf(&b, "location error: %s (retries %d)", v.LocationError, v.LocationRetries)
	case v.Location != nil:
		fmt.Fprintf(&b, "at %.5f,%.5f", v.Location.Lat, v.Location.Lng)
	}

	switch {
	case v.Search.IsLoading:
		b.WriteString(" | searching...")
	case v.Search.Error != "":
		b.WriteString(" | " + v.Search.Error)
	default:
		fmt.Fprintf(&b, " | %s: %d results, %d markers", v.Criteria.ViewMode, len(v.Places)+len(v.Events), len(v.Markers))
	}
	p.line(b.String())
}

func (p *printer) full(v discovery.View) {
	p.mu.Lock()
	defer p.mu.Unlock()

	c := v.Criteria
	fmt.Fprintf(p.w, "view=%s q=%q category=%s radius=%dm", c.ViewMode, c.QueryText, c.Category, c.RadiusMeters)
	if c.Date != nil {
		fmt.Fprintf(p.w, " date=%s", c.Date.Preset)
	}
	fmt.Fprintln(p.w)

	if v.MapError != "" {
		fmt.Fprintf(p.w, "map: %s\n", v.MapError)
	}
	for _, pl := range v.Places {
		fav := " "
		for _, f := range v.Favorites {
			if f.ID == pl.ID {
				fav = "*"
			}
		}
		fmt.Fprintf(p.w, "%s %s  %s  (%s, %.2f km)\n", fav, pl.ID, pl.Name, pl.Vicinity, pl.DistanceKm)
	}
	for _, e := range v.Events {
		fmt.Fprintf(p.w, "  [%s] %s  %s  %s  %s\n",
			e.Type, e.Name, e.Location, e.StartTime.Local().Format("Mon Jan 2 15:04"), e.Source)
	}
}
