package scraper

// Значения по умолчанию для полей, которые не удалось найти
const (
	Unspecified    = "Не вказано"
	UnknownCompany = "Невідомо"
	TitleNotFound  = "Не знайдено"
	LinkNotFound   = "Посилання не знайдено"
)

// JobListing — одна вакансия со страницы поиска. Поля заполняются независимо.
type JobListing struct {
	Title     string
	Company   string
	Salary    string
	City      string
	Published string
	Link      string
	Page      int
}

// CityKnown сообщает, удалось ли определить город
func (j JobListing) CityKnown() bool {
	return j.City != "" && j.City != Unspecified
}

type Selectors struct {
	BaseURL          string   `yaml:"base_url"`
	Pagination       string   `yaml:"pagination"`
	PJAXContainer    string   `yaml:"pjax_container"`
	CardSelectors    string   `yaml:"card_selectors"`
	TitleSelectors   []string `yaml:"title_selectors"`
	LinkSelectors    []string `yaml:"link_selectors"`
	CompanySelectors []string `yaml:"company_selectors"`
	SalarySelectors  []string `yaml:"salary_selectors"`
	MetaBlock        string   `yaml:"meta_block"`
	CompanyMarker    string   `yaml:"company_marker"`
	CityLocation     string   `yaml:"city_location"`
	CityPositional   string   `yaml:"city_positional"`
	TimeSelector     string   `yaml:"time_selector"`
	NextPageLink     string   `yaml:"next_page_link"`
	NextPageText     string   `yaml:"next_page_text"`
}

// DefaultSelectors — разметка work.ua
func DefaultSelectors() *Selectors {
	return &Selectors{
		BaseURL:          "https://www.work.ua",
		Pagination:       "ul.pagination",
		PJAXContainer:    "#pjax",
		CardSelectors:    "div.job-link",
		TitleSelectors:   []string{"h2"},
		LinkSelectors:    []string{"h2 a"},
		CompanySelectors: []string{"div.mt-xs span.strong-600"},
		SalarySelectors:  []string{"span.strong-600"},
		MetaBlock:        "div.mt-xs",
		CompanyMarker:    "span.mr-xs",
		CityLocation:     "span.location",
		CityPositional:   "div.mt-xs span:nth-child(3)",
		TimeSelector:     "time",
		NextPageLink:     "a.link-icon",
		NextPageText:     "Наступна",
	}
}

// ImageSelectors — разметка выдачи картинок
type ImageSelectors struct {
	Thumbnail string `yaml:"thumbnail"`
	FullLink  string `yaml:"full_link"`
	URLParam  string `yaml:"url_param"`
}

func DefaultImageSelectors() *ImageSelectors {
	return &ImageSelectors{
		Thumbnail: "img.YQ4gaf",
		FullLink:  "a[href*='imgres']",
		URLParam:  "imgurl",
	}
}
