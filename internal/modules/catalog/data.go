package catalog

import (
	"fmt"

	"github.com/shopspring/decimal"
)

func price(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

type seed struct {
	name        string
	categories  []string
	sixMonth    *decimal.Decimal
	oneYear     *decimal.Decimal
	lifetime    *decimal.Decimal
	devices     Devices
	description string
}

var seeds = []seed{
	{"Canva Pro", []string{"Design"}, nil, nil, price(10), Unlimited(), "Upgrade on your own email. Premium templates, stock media & HQ download."},
	{"Canva Pro + AI", []string{"Design", "AI"}, nil, nil, price(30), Unlimited(), "All Pro features + Magic Studio AI, background remover, custom fonts."},
	{"CapCut Pro", []string{"Video"}, price(12), price(15), price(35), Limited(2), "New shared account. Filters, effects, transitions, 4K export."},
	{"Grammarly Premium", []string{"Writing", "AI"}, nil, price(20), price(35), Limited(2), "New shared account. Advanced grammar, tone, plagiarism."},
	{"Spotify Premium", []string{"Streaming", "Music"}, nil, price(30), price(40), Unlimited(), "Upgrade on your email. Ad-free, offline, HQ audio."},
	{"QuillBot Premium", []string{"Writing", "AI"}, nil, price(20), price(35), Limited(2), "New shared account. Unlimited paraphrasing, Docs integration."},
	{"Duolingo Plus", []string{"Education"}, price(8), price(15), price(20), Unlimited(), "Upgrade on your email. Ad-free, offline lessons, progress sync."},
	{"ChatGPT Plus", []string{"AI"}, price(20), price(40), price(60), Limited(2), "Private Chat account. Priority access, faster replies."},
	{"Gemini Pro + Veo 3", []string{"AI", "Video"}, nil, price(45), nil, Unlimited(), "New private account. Multimodal AI + Veo 3 cinema video AI."},
	{"Prime Video", []string{"Streaming"}, price(20), price(30), price(50), Limited(2), "New profile account. Premium streaming."},
	{"Netflix Premium", []string{"Streaming"}, price(20), price(40), price(70), Limited(2), "New profile account. Ultra HD streaming."},
	{"YouTube Premium", []string{"Streaming", "Music"}, nil, price(40), price(80), Unlimited(), "Upgrade on your email. Ad-free YouTube, downloads, background play."},
	{"NordVPN Premium", []string{"VPN", "Security"}, nil, price(20), price(40), Limited(5), "New shared account. Secure VPN service."},
	{"IPVanish Premium", []string{"VPN", "Security"}, nil, price(20), price(40), Limited(5), "New shared account. Unlimited bandwidth VPN."},
	{"Surfshark VPN", []string{"VPN", "Security"}, nil, price(20), price(40), Limited(5), "New shared account. Multi-device VPN."},
	{"Coursera Plus", []string{"Education"}, nil, price(25), nil, Limited(2), "New shared account. Unlimited access to 7,000+ courses."},
	{"MS Office 365 + AI", []string{"Productivity", "AI"}, nil, price(30), nil, Limited(5), "New private account. Word, Excel, Outlook, Copilot AI."},
	{"Windows Pro (Genuine)", []string{"Utilities"}, nil, price(8), nil, Limited(1), "Activation key. Windows Professional license (genuine)."},
	{"Freepik Premium", []string{"Design"}, price(15), price(30), price(40), Limited(2), "New personal account. Premium assets, daily downloads."},
	{"IDM Premium", []string{"Utilities"}, nil, nil, price(10), Limited(1), "Activation script. Internet Download Manager (Windows)."},
	{"Google Drive (Upgrade)", []string{"Cloud", "Productivity"}, nil, price(35), nil, Unlimited(), "Upgrade on your email. Extra storage & Workspace perks."},
}

// StaticProducts returns a fresh copy of the built-in catalog, ids p1..pN in catalog order.
func StaticProducts() []*Product {
	products := make([]*Product, 0, len(seeds))
	for i, s := range seeds {
		products = append(products, &Product{
			ID:          fmt.Sprintf("p%d", i+1),
			Name:        s.name,
			Categories:  append([]string(nil), s.categories...),
			Prices:      PriceTable{SixMonth: s.sixMonth, OneYear: s.oneYear, Lifetime: s.lifetime},
			Devices:     s.devices,
			Description: s.description,
			Link:        "#",
		})
	}
	return products
}
