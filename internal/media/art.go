package media

// ImageBases holds the artwork host URL prefixes. The small base serves
// list artwork, the large base serves full-size backdrops.
type ImageBases struct {
	Small string
	Large string
}

// ArtMap builds the semantic artwork mapping for a record. Absent path
// fragments are omitted rather than mapped to empty strings.
func ArtMap(rec *MediaRecord, bases ImageBases) map[string]string {
	art := make(map[string]string)

	if rec.PosterPath != "" {
		art["poster"] = bases.Small + rec.PosterPath
		art["thumb"] = bases.Small + rec.PosterPath
	}
	if rec.BackdropPath != "" {
		art["fanart"] = bases.Large + rec.BackdropPath
	}
	if rec.LogoPath != "" {
		art["clearlogo"] = bases.Small + rec.LogoPath
	}
	if rec.BannerPath != "" {
		art["banner"] = bases.Small + rec.BannerPath
	}
	if rec.LandscapePath != "" {
		art["landscape"] = bases.Small + rec.LandscapePath
	}
	if rec.IconPath != "" {
		art["icon"] = bases.Small + rec.IconPath
	}
	if rec.ClearartPath != "" {
		art["clearart"] = bases.Small + rec.ClearartPath
	}

	return art
}
