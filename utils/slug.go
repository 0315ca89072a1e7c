package utils

import (
	"strings"

	"github.com/gosimple/slug"
)

// SlugMaxLength matches the slug column width of a note.
const SlugMaxLength = 100

// russianTranslit follows the pytils table (й→j, х→h, ы→yi, щ→sch), which
// differs from the library's default unidecode output.
var russianTranslit = strings.NewReplacer(
	"а", "a", "б", "b", "в", "v", "г", "g", "д", "d",
	"е", "e", "ё", "yo", "ж", "zh", "з", "z", "и", "i",
	"й", "j", "к", "k", "л", "l", "м", "m", "н", "n",
	"о", "o", "п", "p", "р", "r", "с", "s", "т", "t",
	"у", "u", "ф", "f", "х", "h", "ц", "ts", "ч", "ch",
	"ш", "sh", "щ", "sch", "ъ", "", "ы", "yi", "ь", "",
	"э", "e", "ю", "yu", "я", "ya",
)

// Slugify transliterates s to a lowercase ASCII slug and cuts it to max
// characters. The result may be empty when s has nothing sluggable.
func Slugify(s string, max int) string {
	out := slug.Make(russianTranslit.Replace(strings.ToLower(s)))
	if max > 0 && len(out) > max {
		out = strings.TrimRight(out[:max], "-")
	}
	return out
}
