// Command seed fills an empty database with demo content and an admin account.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/sachpatra/internal/access"
	"github.com/sachpatra/internal/config"
	"github.com/sachpatra/internal/db"
	"github.com/sachpatra/internal/service"
	"gorm.io/gorm"
)

const (
	defaultAdminEmail    = "admin@sachpatra.local"
	defaultAdminPassword = "admin123"
)

type seedOptions struct {
	AdminEmail    string
	AdminPassword string
	Now           time.Time
	Location      *time.Location
}

type seedReport struct {
	Skipped  bool
	Articles int
	Ads      int
	Breaking int
	Videos   int
	Gallery  int
	Pages    int
}

func main() {
	var opts seedOptions
	flag.StringVar(&opts.AdminEmail, "admin-email", defaultAdminEmail, "admin account email")
	flag.StringVar(&opts.AdminPassword, "admin-password", defaultAdminPassword, "admin account password")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	gdb, err := db.Open(db.Options{Driver: cfg.DBDriver, DSN: cfg.DatabaseTarget()})
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	opts.Now = time.Now()
	opts.Location = cfg.Location()

	report, err := seed(context.Background(), gdb, opts)
	if err != nil {
		log.Fatalf("seed failed: %v", err)
	}
	if report.Skipped {
		fmt.Println("articles already exist, nothing to seed")
		return
	}
	fmt.Printf("seeded %d articles, %d ads, %d headlines, %d videos, %d gallery images, %d pages\n",
		report.Articles, report.Ads, report.Breaking, report.Videos, report.Gallery, report.Pages)
	fmt.Printf("admin: %s / %s\n", opts.AdminEmail, opts.AdminPassword)
}

// seed is idempotent: it always ensures the admin account and only writes
// demo content into a database without articles.
func seed(ctx context.Context, gdb *gorm.DB, opts seedOptions) (seedReport, error) {
	var report seedReport
	if opts.Location == nil {
		opts.Location = time.UTC
	}

	admin, err := service.NewUserService(gdb).EnsureAdmin(ctx, opts.AdminEmail, opts.AdminPassword)
	if err != nil {
		return report, fmt.Errorf("ensure admin: %w", err)
	}

	var existing int64
	if err := gdb.WithContext(ctx).Model(&db.Article{}).Count(&existing).Error; err != nil {
		return report, err
	}
	if existing > 0 {
		report.Skipped = true
		return report, nil
	}

	caps := access.For(admin)
	articles := service.NewArticleService(gdb)
	for _, input := range demoArticles(opts.Now) {
		if _, err := articles.Create(ctx, caps, input); err != nil {
			return report, fmt.Errorf("create article %q: %w", input.Title, err)
		}
		report.Articles++
	}

	ads := service.NewAdService(gdb, opts.Location)
	for _, input := range demoAds(opts.Now.In(opts.Location)) {
		if _, err := ads.Create(ctx, input); err != nil {
			return report, fmt.Errorf("create ad %q: %w", input.Title, err)
		}
		report.Ads++
	}

	breaking := service.NewBreakingNewsService(gdb)
	for i, title := range []string{
		"संसद का शीतकालीन सत्र आज से शुरू",
		"मौसम विभाग ने उत्तर भारत में घने कोहरे की चेतावनी जारी की",
		"Sensex crosses a new record high in early trade",
	} {
		if _, err := breaking.Save(ctx, "", service.BreakingNewsInput{Title: title, IsActive: true, Priority: 10 - i}); err != nil {
			return report, fmt.Errorf("create headline: %w", err)
		}
		report.Breaking++
	}

	videos := service.NewVideoService(gdb)
	for _, input := range []service.VideoInput{
		{Title: "चुनाव विश्लेषण: किसके पक्ष में हवा", VideoURL: "https://www.youtube.com/watch?v=dQw4w9WgXcQ", Duration: "12:40"},
		{Title: "Budget explained in five minutes", VideoURL: "https://youtu.be/9bZkp7q19f0", Duration: "5:02"},
		{Title: "खेती की नई तकनीक", VideoURL: "https://vimeo.com/76979871", Duration: "8:15"},
	} {
		input.PublishedAt = opts.Now.UTC().Format(time.RFC3339)
		if _, err := videos.Save(ctx, "", input); err != nil {
			return report, fmt.Errorf("create video %q: %w", input.Title, err)
		}
		report.Videos++
	}

	gallery := service.NewGalleryService(gdb)
	for i, caption := range []string{"गंगा आरती, वाराणसी", "Monsoon clouds over Mumbai", "पुष्कर मेला", "Sunrise at Kanyakumari"} {
		width, height := 1600, 1067
		if i%2 == 1 {
			width, height = 1080, 1350
		}
		if _, err := gallery.Create(ctx, service.GalleryInput{
			ImageURL:    fmt.Sprintf("https://picsum.photos/seed/sachpatra-%d/%d/%d", i, width, height),
			Caption:     caption,
			ImageWidth:  width,
			ImageHeight: height,
		}); err != nil {
			return report, fmt.Errorf("create gallery image: %w", err)
		}
		report.Gallery++
	}

	pages := service.NewPageService(gdb)
	for _, page := range []struct {
		slug  string
		input service.PageInput
	}{
		{"about", service.PageInput{Language: "hi", Title: "हमारे बारे में", Content: "सचपत्र एक द्विभाषी समाचार मंच है जो सच्ची और निष्पक्ष खबरें आप तक पहुँचाता है।"}},
		{"about", service.PageInput{Language: "en", Title: "About us", Content: "Sachpatra is a bilingual newsroom bringing you accurate, fair reporting."}},
		{"privacy", service.PageInput{Language: "en", Title: "Privacy policy", Content: "We only store the data needed to run this site."}},
	} {
		if _, err := pages.Upsert(ctx, page.slug, page.input); err != nil {
			return report, fmt.Errorf("create page %s/%s: %w", page.slug, page.input.Language, err)
		}
		report.Pages++
	}

	return report, nil
}

func demoArticles(now time.Time) []service.ArticleInput {
	published := now.UTC().Format(time.RFC3339)
	return []service.ArticleInput{
		{
			Title:    "उत्तर प्रदेश में नई मेट्रो लाइन का उद्घाटन",
			Content:  "लखनऊ में नई मेट्रो लाइन का उद्घाटन हुआ, जिससे रोज़ाना हज़ारों यात्रियों को राहत मिलेगी।",
			Category: "national",
			State:    "UP",
			Tags:     []string{"मेट्रो", "लखनऊ"},
			Author:   "सचपत्र डेस्क",
			Featured: true,
			Status:   db.StatusPublished,
		},
		{
			Title:    "Bihar announces scholarship scheme for girls",
			Content:  "The Bihar government announced a **new scholarship** for girls in higher education.",
			Category: "national",
			State:    "BR",
			Tags:     []string{"education", "bihar"},
			Status:   db.StatusPublished,
		},
		{
			Title:      "भारत ने रोमांचक मुकाबले में ऑस्ट्रेलिया को हराया",
			Content:    "अंतिम ओवर तक चले मुकाबले में भारत ने चार विकेट से जीत दर्ज की।\n\nhttps://www.youtube.com/watch?v=dQw4w9WgXcQ",
			Category:   "खेल",
			Tags:       []string{"क्रिकेट"},
			LatestNews: true,
			Status:     db.StatusPublished,
		},
		{
			Title:    "Startups raise record funding this quarter",
			Content:  "Indian startups raised more capital this quarter than in any quarter since 2021.",
			Category: "business",
			Tags:     []string{"startups", "funding"},
			Status:   db.StatusPublished,
		},
		{
			Title:    "नई शिक्षा नीति पर विशेष रिपोर्ट",
			Content:  "नई शिक्षा नीति के तीन साल पूरे होने पर हमारी विशेष रिपोर्ट।",
			Category: "special-reports",
			Tags:     []string{"शिक्षा"},
			Status:   db.StatusPublished,
		},
		{
			Title:       "Farmers adopt drone spraying in Punjab",
			Content:     "Drone spraying is cutting pesticide use across Punjab's wheat belt.",
			Category:    "agriculture",
			Tags:        []string{"farming", "technology"},
			PublishedAt: published,
			Status:      db.StatusPublished,
		},
		{
			Title:    "Draft: monsoon preparedness review",
			Content:  "Work in progress.",
			Category: "national",
		},
	}
}

func demoAds(now time.Time) []service.AdInput {
	start := now.AddDate(0, 0, -1).Format("2006-01-02")
	end := now.AddDate(0, 1, 0).Format("2006-01-02")
	return []service.AdInput{
		{Title: "Festive sale", ImageURL: "https://picsum.photos/seed/ad-header/728/90", LinkURL: "https://example.com/sale", Position: db.PositionHeader, IsActive: true, StartDate: start, EndDate: end},
		{Title: "खेल सामग्री", ImageURL: "https://picsum.photos/seed/ad-sports/300/250", LinkURL: "https://example.com/sports", Position: db.PositionSidebar, Category: "sports", IsActive: true, StartDate: start, EndDate: end},
		{Title: "Home loans", ImageURL: "https://picsum.photos/seed/ad-footer/728/90", LinkURL: "https://example.com/loans", Position: db.PositionFooter, IsActive: true, StartDate: start, EndDate: end},
	}
}
