package tachidesk

// Extension is an installable source bundle.
type Extension struct {
	Name        string `json:"name"`
	PkgName     string `json:"pkgName"`
	VersionName string `json:"versionName"`
	VersionCode int    `json:"versionCode"`
	Lang        string `json:"lang"`
	IsNsfw      bool   `json:"isNsfw"`
	ApkName     string `json:"apkName"`
	IconURL     string `json:"iconUrl"`
	Installed   bool   `json:"installed"`
	HasUpdate   bool   `json:"hasUpdate"`
	Obsolete    bool   `json:"obsolete"`
}

// Source is one manga site provided by an installed extension.
type Source struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Lang           string `json:"lang"`
	IconURL        string `json:"iconUrl"`
	SupportsLatest bool   `json:"supportsLatest"`
	IsConfigurable bool   `json:"isConfigurable"`
	IsNsfw         bool   `json:"isNsfw"`
	DisplayName    string `json:"displayName"`
}

// Manga is a series as known to one source.
type Manga struct {
	ID           int      `json:"id"`
	SourceID     string   `json:"sourceId"`
	URL          string   `json:"url"`
	Title        string   `json:"title"`
	ThumbnailURL string   `json:"thumbnailUrl,omitempty"`
	Initialized  bool     `json:"initialized"`
	Artist       string   `json:"artist,omitempty"`
	Author       string   `json:"author,omitempty"`
	Description  string   `json:"description,omitempty"`
	Genre        []string `json:"genre,omitempty"`
	Status       string   `json:"status,omitempty"`
	InLibrary    bool     `json:"inLibrary"`
	RealURL      string   `json:"realUrl,omitempty"`
}

// MangaListPage is one page of a popular, latest or search listing.
type MangaListPage struct {
	MangaList   []Manga `json:"mangaList"`
	HasNextPage bool    `json:"hasNextPage"`
}

// Chapter belongs to one manga. Index is its 1-based position in the chapter list.
type Chapter struct {
	ID            int     `json:"id"`
	URL           string  `json:"url"`
	Name          string  `json:"name"`
	UploadDate    int64   `json:"uploadDate"`
	ChapterNumber float64 `json:"chapterNumber"`
	Scanlator     string  `json:"scanlator,omitempty"`
	MangaID       int     `json:"mangaId"`
	Read          bool    `json:"read"`
	Bookmarked    bool    `json:"bookmarked"`
	LastPageRead  int     `json:"lastPageRead"`
	Index         int     `json:"index"`
	ChapterCount  int     `json:"chapterCount"`
	PageCount     int     `json:"pageCount"`
}

// SourceFilter describes one filter a source accepts when searching.
type SourceFilter struct {
	Type   string `json:"type"`
	Filter struct {
		Name  string `json:"name"`
		State any    `json:"state"`
	} `json:"filter"`
}

// ExtensionAction is what to do with an extension.
type ExtensionAction string

const (
	Install   ExtensionAction = "install"
	Update    ExtensionAction = "update"
	Uninstall ExtensionAction = "uninstall"
)

// Valid reports whether a is a known action.
func (a ExtensionAction) Valid() bool {
	switch a {
	case Install, Update, Uninstall:
		return true
	}
	return false
}
