package calendar

// Feast tables. Name keys are looked up by the caller's translation layer;
// they are namespaced by tradition because the same feast is labelled
// differently across churches.

// westernMovableFeasts are offsets from Gregorian Easter Sunday.
var westernMovableFeasts = []FeastDefinition{
	{NameKey: "western.septuagesima", Offset: -63, Category: CategoryMinor},
	{NameKey: "western.sexagesima", Offset: -56, Category: CategoryMinor},
	{NameKey: "western.quinquagesima", Offset: -49, Category: CategoryMinor},
	{NameKey: "western.ash_wednesday", Offset: -46, Category: CategoryFast},
	{NameKey: "western.laetare_sunday", Offset: -21, Category: CategoryMinor},
	{NameKey: "western.palm_sunday", Offset: -7, Category: CategoryMajor},
	{NameKey: "western.maundy_thursday", Offset: -3, Category: CategoryMajor},
	{NameKey: "western.good_friday", Offset: -2, Category: CategoryFast},
	{NameKey: "western.holy_saturday", Offset: -1, Category: CategoryMinor},
	{NameKey: "western.easter", Offset: 0, Category: CategoryMajor},
	{NameKey: "western.easter_monday", Offset: 1, Category: CategoryMinor},
	{NameKey: "western.divine_mercy", Offset: 7, Category: CategoryMinor},
	{NameKey: "western.ascension", Offset: 39, Category: CategoryMajor},
	{NameKey: "western.pentecost", Offset: 49, Category: CategoryMajor},
	{NameKey: "western.trinity_sunday", Offset: 56, Category: CategoryMinor},
	{NameKey: "western.corpus_christi", Offset: 60, Category: CategoryMinor},
}

// westernFixedFeasts are Gregorian calendar dates.
var westernFixedFeasts = []FixedFeast{
	{NameKey: "western.epiphany", Calendar: Western, Month: 1, Day: 6, Category: CategoryMajor},
	{NameKey: "christian.candlemas", Calendar: Western, Month: 2, Day: 2, Category: CategoryMinor},
	{NameKey: "christian.annunciation", Calendar: Western, Month: 3, Day: 25, Category: CategoryMajor},
	{NameKey: "christian.john_baptist_nativity", Calendar: Western, Month: 6, Day: 24, Category: CategoryMinor},
	{NameKey: "christian.transfiguration", Calendar: Western, Month: 8, Day: 6, Category: CategoryMinor},
	{NameKey: "christian.assumption", Calendar: Western, Month: 8, Day: 15, Category: CategoryMajor},
	{NameKey: "christian.mary_nativity", Calendar: Western, Month: 9, Day: 8, Category: CategoryMinor},
	{NameKey: "christian.holy_cross", Calendar: Western, Month: 9, Day: 14, Category: CategoryMinor},
	{NameKey: "western.all_saints", Calendar: Western, Month: 11, Day: 1, Category: CategoryMajor},
	{NameKey: "western.immaculate_conception", Calendar: Western, Month: 12, Day: 8, Category: CategoryMajor},
	{NameKey: "western.christmas", Calendar: Western, Month: 12, Day: 25, Category: CategoryMajor},
}

// easternMovableFeasts are offsets from Orthodox Pascha.
var easternMovableFeasts = []FeastDefinition{
	{NameKey: "eastern.great_lent", Offset: -48, Category: CategoryFast},
	{NameKey: "eastern.lazarus_saturday", Offset: -8, Category: CategoryMinor},
	{NameKey: "eastern.palm_sunday", Offset: -7, Category: CategoryMajor},
	{NameKey: "eastern.holy_thursday", Offset: -3, Category: CategoryMajor},
	{NameKey: "eastern.good_friday", Offset: -2, Category: CategoryFast},
	{NameKey: "eastern.pascha", Offset: 0, Category: CategoryMajor},
	{NameKey: "eastern.thomas_sunday", Offset: 7, Category: CategoryMinor},
	{NameKey: "eastern.ascension", Offset: 39, Category: CategoryMajor},
	{NameKey: "eastern.pentecost", Offset: 49, Category: CategoryMajor},
	{NameKey: "eastern.all_saints", Offset: 56, Category: CategoryMinor},
}

// easternFixedFeasts are the Julian-calendar feasts, plus the feasts kept on
// the same civil date in both traditions.
var easternFixedFeasts = []FixedFeast{
	{NameKey: "eastern.christmas", Calendar: Eastern, Month: 12, Day: 25, Category: CategoryMajor, Julian: true},
	{NameKey: "eastern.theophany", Calendar: Eastern, Month: 1, Day: 6, Category: CategoryMajor, Julian: true},
	{NameKey: "christian.candlemas", Calendar: Eastern, Month: 2, Day: 2, Category: CategoryMinor},
	{NameKey: "christian.annunciation", Calendar: Eastern, Month: 3, Day: 25, Category: CategoryMajor},
	{NameKey: "christian.john_baptist_nativity", Calendar: Eastern, Month: 6, Day: 24, Category: CategoryMinor},
	{NameKey: "christian.transfiguration", Calendar: Eastern, Month: 8, Day: 6, Category: CategoryMinor},
	{NameKey: "christian.assumption", Calendar: Eastern, Month: 8, Day: 15, Category: CategoryMajor},
	{NameKey: "christian.mary_nativity", Calendar: Eastern, Month: 9, Day: 8, Category: CategoryMinor},
	{NameKey: "christian.holy_cross", Calendar: Eastern, Month: 9, Day: 14, Category: CategoryMinor},
}

// holyWeekDays run from Lazarus Saturday to Easter Monday.
var holyWeekDays = []FeastDefinition{
	{NameKey: "holy_week.lazarus_saturday", Offset: -8, Category: CategoryMinor},
	{NameKey: "holy_week.palm_sunday", Offset: -7, Category: CategoryMajor},
	{NameKey: "holy_week.holy_monday", Offset: -6, Category: CategoryMinor},
	{NameKey: "holy_week.holy_tuesday", Offset: -5, Category: CategoryMinor},
	{NameKey: "holy_week.holy_wednesday", Offset: -4, Category: CategoryMinor},
	{NameKey: "holy_week.maundy_thursday", Offset: -3, Category: CategoryMajor},
	{NameKey: "holy_week.good_friday", Offset: -2, Category: CategoryFast},
	{NameKey: "holy_week.holy_saturday", Offset: -1, Category: CategoryMinor},
	{NameKey: "holy_week.easter_sunday", Offset: 0, Category: CategoryMajor},
	{NameKey: "holy_week.easter_monday", Offset: 1, Category: CategoryMinor},
}

// hebrewFixedFeasts use HebrewMonth names for Month.
var hebrewFixedFeasts = []FixedFeast{
	{NameKey: "hebrew.rosh_hashanah", Calendar: Hebrew, Month: int(Tishrei), Day: 1, Category: CategoryMajor},
	{NameKey: "hebrew.tzom_gedaliah", Calendar: Hebrew, Month: int(Tishrei), Day: 3, Category: CategoryFast},
	{NameKey: "hebrew.yom_kippur", Calendar: Hebrew, Month: int(Tishrei), Day: 10, Category: CategoryMajor},
	{NameKey: "hebrew.sukkot", Calendar: Hebrew, Month: int(Tishrei), Day: 15, Category: CategoryMajor},
	{NameKey: "hebrew.shemini_atzeret", Calendar: Hebrew, Month: int(Tishrei), Day: 22, Category: CategoryMajor},
	{NameKey: "hebrew.simchat_torah", Calendar: Hebrew, Month: int(Tishrei), Day: 23, Category: CategoryMajor},
	{NameKey: "hebrew.hanukkah", Calendar: Hebrew, Month: int(Kislev), Day: 25, Category: CategoryMajor},
	{NameKey: "hebrew.tzom_tevet", Calendar: Hebrew, Month: int(Tevet), Day: 10, Category: CategoryFast},
	{NameKey: "hebrew.tu_bishvat", Calendar: Hebrew, Month: int(Shevat), Day: 15, Category: CategoryMinor},
	{NameKey: "hebrew.purim", Calendar: Hebrew, Month: int(AdarII), Day: 14, Category: CategoryMajor},
	{NameKey: "hebrew.passover", Calendar: Hebrew, Month: int(Nisan), Day: 15, Category: CategoryMajor},
	{NameKey: "hebrew.yom_hashoah", Calendar: Hebrew, Month: int(Nisan), Day: 27, Category: CategoryMinor},
	{NameKey: "hebrew.yom_hazikaron", Calendar: Hebrew, Month: int(Iyar), Day: 4, Category: CategoryMinor},
	{NameKey: "hebrew.yom_haatzmaut", Calendar: Hebrew, Month: int(Iyar), Day: 5, Category: CategoryMinor},
	{NameKey: "hebrew.lag_baomer", Calendar: Hebrew, Month: int(Iyar), Day: 18, Category: CategoryMinor},
	{NameKey: "hebrew.yom_yerushalayim", Calendar: Hebrew, Month: int(Iyar), Day: 28, Category: CategoryMinor},
	{NameKey: "hebrew.shavuot", Calendar: Hebrew, Month: int(Sivan), Day: 6, Category: CategoryMajor},
	{NameKey: "hebrew.tzom_tammuz", Calendar: Hebrew, Month: int(Tammuz), Day: 17, Category: CategoryFast},
	{NameKey: "hebrew.tisha_bav", Calendar: Hebrew, Month: int(Av), Day: 9, Category: CategoryFast},
	{NameKey: "hebrew.tu_bav", Calendar: Hebrew, Month: int(Av), Day: 15, Category: CategoryMinor},
}

// copticFixedFeasts are Coptic calendar dates. None fall in the epagomenal month.
var copticFixedFeasts = []FixedFeast{
	{NameKey: "coptic.nayrouz", Calendar: Coptic, Month: 1, Day: 1, Category: CategoryMajor},
	{NameKey: "coptic.cross_finding", Calendar: Coptic, Month: 1, Day: 17, Category: CategoryMinor},
	{NameKey: "coptic.virgin_nativity", Calendar: Coptic, Month: 2, Day: 1, Category: CategoryMinor},
	{NameKey: "coptic.christmas", Calendar: Coptic, Month: 4, Day: 29, Category: CategoryMajor},
	{NameKey: "coptic.epiphany", Calendar: Coptic, Month: 5, Day: 11, Category: CategoryMajor},
	{NameKey: "coptic.presentation", Calendar: Coptic, Month: 6, Day: 8, Category: CategoryMinor},
	{NameKey: "coptic.annunciation", Calendar: Coptic, Month: 7, Day: 29, Category: CategoryMajor},
	{NameKey: "coptic.egypt_entry", Calendar: Coptic, Month: 9, Day: 24, Category: CategoryMinor},
	{NameKey: "coptic.apostles_fast", Calendar: Coptic, Month: 10, Day: 16, Category: CategoryFast},
	{NameKey: "coptic.transfiguration", Calendar: Coptic, Month: 12, Day: 13, Category: CategoryMinor},
	{NameKey: "coptic.assumption", Calendar: Coptic, Month: 12, Day: 16, Category: CategoryMinor},
}

// copticMovableFeasts are offsets from Coptic Easter.
var copticMovableFeasts = []FeastDefinition{
	{NameKey: "coptic.great_lent", Offset: -55, Category: CategoryFast},
	{NameKey: "coptic.palm_sunday", Offset: -7, Category: CategoryMajor},
	{NameKey: "coptic.good_friday", Offset: -2, Category: CategoryFast},
	{NameKey: "coptic.easter", Offset: 0, Category: CategoryMajor},
	{NameKey: "coptic.ascension", Offset: 39, Category: CategoryMajor},
	{NameKey: "coptic.pentecost", Offset: 49, Category: CategoryMajor},
}

// FeastKeys returns every name key used by the built-in tables, in table order
// and without duplicates.
func FeastKeys() []string {
	seen := make(map[string]bool)
	var keys []string
	add := func(key string) {
		if !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}

	for _, table := range [][]FeastDefinition{westernMovableFeasts, easternMovableFeasts, holyWeekDays, copticMovableFeasts} {
		for _, def := range table {
			add(def.NameKey)
		}
	}
	for _, table := range [][]FixedFeast{westernFixedFeasts, easternFixedFeasts, hebrewFixedFeasts, copticFixedFeasts} {
		for _, f := range table {
			add(f.NameKey)
		}
	}
	return keys
}
