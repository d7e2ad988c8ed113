package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"hotelavail/internal/availability"
	"hotelavail/internal/catalog"
	"hotelavail/internal/models"

	"github.com/rs/zerolog"
)

const (
	exitOK         = 0
	exitLoadError  = 1
	exitValidation = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		hotelsPath   = fs.String("hotels", "data/hotels.json", "path or URL of hotels.json")
		bookingsPath = fs.String("bookings", "data/bookings.json", "path or URL of bookings.json")
		hotelID      = fs.String("hotel", "", "hotel id")
		startDate    = fs.String("start", "", "start date (YYYY-MM-DD or YYYYMMDD)")
		endDate      = fs.String("end", "", "end date (YYYY-MM-DD or YYYYMMDD)")
		roomType     = fs.String("type", "", "room type code")
		asJSON       = fs.Bool("json", false, "print the result as JSON")
		verbose      = fs.Bool("v", false, "log catalog loading")
	)
	if err := fs.Parse(args); err != nil {
		return exitValidation
	}

	level := zerolog.WarnLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: stderr, TimeFormat: time.RFC3339}).
		Level(level).With().Timestamp().Logger()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cat, err := catalog.NewJSONSource(*hotelsPath, *bookingsPath, &logger).Load(ctx)
	if err != nil {
		logger.Error().Err(err).Str("hotels", *hotelsPath).Str("bookings", *bookingsPath).Msg("load catalog")
		return exitLoadError
	}

	q := models.Query{HotelID: *hotelID, StartDate: *startDate, EndDate: *endDate, RoomType: *roomType}
	res, err := availability.Compute(cat, q)
	if err != nil {
		if errors.Is(err, availability.ErrValidation) {
			fmt.Fprintln(stderr, err.Error())
			return exitValidation
		}
		logger.Error().Err(err).Msg("compute availability")
		return exitLoadError
	}

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			logger.Error().Err(err).Msg("encode result")
			return exitLoadError
		}
		return exitOK
	}

	fmt.Fprintf(stdout, "Total Rooms: %d\n", res.TotalRooms)
	fmt.Fprintf(stdout, "Booked Rooms: %d\n", res.BookedRooms)
	fmt.Fprintf(stdout, "Available Rooms: %d\n", res.AvailableRooms)
	return exitOK
}
