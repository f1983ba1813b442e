package styling

// RemoveRequest selects what Remove deletes. It is one of RemoveAll,
// RemoveEntry or RemoveProperties.
type RemoveRequest interface {
	isRemoveRequest()
}

// RemoveAll removes every media entry registered under a selector
type RemoveAll struct{}

// RemoveEntry removes the entry for one media query ("" means NoMedia)
type RemoveEntry struct {
	Media string
}

// RemoveProperties deletes the named properties from one entry. The entry
// goes away once it has no properties left. An empty Names list behaves
// like RemoveEntry.
type RemoveProperties struct {
	Names []string
	Media string
}

func (RemoveAll) isRemoveRequest()        {}
func (RemoveEntry) isRemoveRequest()      {}
func (RemoveProperties) isRemoveRequest() {}

// ParseRemoveRequest resolves the loosely typed removal arguments used by
// manifests and scripts:
//
//	"all"              -> RemoveAll
//	"<query>", media "" -> RemoveEntry for <query>
//	[]string / []any   -> RemoveProperties
//	anything else      -> RemoveEntry for media
func ParseRemoveRequest(properties any, media string) RemoveRequest {
	switch v := properties.(type) {
	case string:
		if v == "all" {
			return RemoveAll{}
		}
		if media == "" && v != "" {
			return RemoveEntry{Media: v}
		}
	case []string:
		return RemoveProperties{Names: v, Media: media}
	case []any:
		names := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				names = append(names, s)
			}
		}
		return RemoveProperties{Names: names, Media: media}
	}
	return RemoveEntry{Media: media}
}
