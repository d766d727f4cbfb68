package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/sudo-init-do/propnest/internal/auth"
	"github.com/sudo-init-do/propnest/internal/browse"
	"github.com/sudo-init-do/propnest/internal/client"
	"github.com/sudo-init-do/propnest/internal/listing"
	"github.com/sudo-init-do/propnest/internal/mapview"
	"github.com/sudo-init-do/propnest/internal/messaging"
)

func (a *app) signup(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("signup", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	var in auth.SignupRequest
	fs.StringVar(&in.Name, "name", "", "full name")
	fs.StringVar(&in.Email, "email", "", "email address")
	fs.StringVar(&in.Password, "password", "", "password (min 6 chars)")
	fs.StringVar(&in.Role, "role", "buyer", "owner or buyer")
	if err := fs.Parse(args); err != nil {
		return err
	}

	res, err := a.api.Signup(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Signed up as %s (%s)\n", res.User.Name, res.User.Role)
	return nil
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	res, err := a.api.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Logged in as %s (%s)\n", res.User.Name, res.User.Role)
	return nil
}

func (a *app) logout() error {
	if err := a.api.Logout(); err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, "Logged out")
	return nil
}

func (a *app) list(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	typ := fs.String("type", browse.Any, "apartment, house, rental-house, villa or all")
	minPrice := fs.String("min", "", "minimum price")
	maxPrice := fs.String("max", "", "maximum price")
	bedrooms := fs.String("bedrooms", browse.Any, "exact bedroom count or all")
	mode := fs.String("view", string(browse.ModeGrid), "grid or map")
	clusters := fs.Bool("clusters", false, "group map markers by area")
	if err := fs.Parse(args); err != nil {
		return err
	}

	f, err := browse.ParseFilter(*typ, *minPrice, *maxPrice, *bedrooms)
	if err != nil {
		return err
	}

	ctl := browse.NewController(a.api, a.maps)
	if err := ctl.SetViewMode(browse.ViewMode(*mode)); err != nil {
		return err
	}
	ctl.SetFilter(f)
	if err := ctl.Refresh(ctx); err != nil {
		return err
	}

	r := ctl.Render(a.api.Session().Authenticated())
	if r.Mode == browse.ModeMap {
		a.printMap(r, *clusters)
		return nil
	}
	a.printGrid(r.Cards)
	return nil
}

func (a *app) printGrid(cards []browse.Card) {
	if len(cards) == 0 {
		fmt.Fprintln(a.stdout, "No properties match the current filters.")
		return
	}
	tw := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tPRICE\tTYPE\tROOMS\tADDRESS\tOWNER")
	for _, c := range cards {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n", c.ID, c.Title, c.PriceLabel, c.TypeLabel, c.Rooms, c.Address, c.Owner)
	}
	tw.Flush()
}

func (a *app) printMap(r browse.Rendering, clusters bool) {
	vp := r.Viewport
	fmt.Fprintf(a.stdout, "Map centre %.4f, %.4f  zoom %d  (%d markers)\n", vp.CenterLat, vp.CenterLng, vp.Zoom, len(r.Markers))
	if len(r.Markers) == 0 {
		return
	}

	tw := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
	if clusters {
		fmt.Fprintln(tw, "AREA\tLAT\tLNG\tLISTINGS")
		for _, c := range mapview.ClusterMarkers(r.Markers, 4) {
			titles := make([]string, 0, len(c.Markers))
			for _, m := range c.Markers {
				titles = append(titles, m.Title)
			}
			fmt.Fprintf(tw, "%s\t%.4f\t%.4f\t%s\n", c.Geohash, c.Lat, c.Lng, strings.Join(titles, "; "))
		}
		tw.Flush()
		return
	}

	fmt.Fprintln(tw, "ID\tLAT\tLNG\tTITLE\tPRICE\tACTION")
	for _, m := range r.Markers {
		fmt.Fprintf(tw, "%s\t%.4f\t%.4f\t%s\t%s\t%s\n", m.ID, m.Lat, m.Lng, m.Title, m.PriceLabel, m.ActionLabel)
	}
	tw.Flush()
}

func (a *app) add(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	var in listing.CreateInput
	fs.StringVar(&in.Title, "title", "", "listing title")
	fs.StringVar(&in.Type, "type", "", "apartment, house, rental-house or villa")
	fs.StringVar(&in.Description, "description", "", "description")
	fs.StringVar(&in.Price, "price", "", "price")
	fs.StringVar(&in.SquareFeet, "sqft", "", "area in square feet")
	fs.StringVar(&in.Bedrooms, "bedrooms", "", "bedrooms")
	fs.StringVar(&in.Bathrooms, "bathrooms", "", "bathrooms")
	fs.StringVar(&in.Lat, "lat", "", "latitude")
	fs.StringVar(&in.Lng, "lng", "", "longitude")
	fs.StringVar(&in.Address, "address", "", "street address")
	fs.StringVar(&in.City, "city", "", "city")
	fs.StringVar(&in.State, "state", "", "state")
	if err := fs.Parse(args); err != nil {
		return err
	}

	form := client.AddPropertyForm{CreateInput: in}
	for _, path := range fs.Args() {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		form.Images = append(form.Images, client.Image{Name: filepath.Base(path), Data: f})
	}

	banner := browse.NewBanner()
	created, err := a.api.AddProperty(ctx, form)
	if err != nil {
		banner.Failure(err)
	} else {
		banner.Success(fmt.Sprintf("Property added successfully (%s)", created.ID))
	}
	return a.showBanner(banner)
}

func (a *app) contact(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("contact", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	id := fs.String("id", "", "listing id")
	name := fs.String("name", "", "your name (defaults to the signed-in user)")
	email := fs.String("email", "", "your email (defaults to the signed-in user)")
	phone := fs.String("phone", "", "your phone number")
	message := fs.String("message", "", "message to the owner")
	if err := fs.Parse(args); err != nil {
		return err
	}

	session := a.api.Session()
	if !session.Authenticated() {
		fmt.Fprintln(a.stdout, mapview.ActionLoginToContact+": run `browse login` first")
		return client.ErrAuthRequired
	}
	if u := session.User(); u != nil {
		if *name == "" {
			*name = u.Name
		}
		if *email == "" {
			*email = u.Email
		}
	}

	in := messaging.SendInput{
		SenderName:  *name,
		SenderEmail: *email,
		SenderPhone: *phone,
		Message:     *message,
		PropertyID:  *id,
	}

	banner := browse.NewBanner()
	if _, err := a.api.SendMessage(ctx, in, session.Token()); err != nil {
		banner.Failure(err)
	} else {
		banner.Success("Message sent to the owner")
	}
	return a.showBanner(banner)
}

func (a *app) inbox(ctx context.Context) error {
	items, err := a.api.Inbox(ctx)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Fprintln(a.stdout, "No enquiries yet.")
		return nil
	}

	tw := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tSTATUS\tPROPERTY\tFROM\tMESSAGE")
	for _, e := range items {
		from := e.SenderName + " <" + e.SenderEmail + ">"
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", e.Date.Local().Format("2006-01-02 15:04"), e.Status, e.PropertyTitle, from, e.Message)
	}
	return tw.Flush()
}

// showBanner prints the banner's notice and turns a failure into the exit error.
func (a *app) showBanner(b *browse.Banner) error {
	n, ok := b.Current()
	if !ok {
		return nil
	}
	if n.Kind == browse.NoticeFailure {
		return errors.New(n.Text)
	}
	fmt.Fprintln(a.stdout, n.Text)
	return nil
}
