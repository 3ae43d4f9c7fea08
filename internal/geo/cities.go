package geo

// cityCoordinates is the registry of known cities and spots, keyed by
// normalized canonical name. Mostly Ural and nearby regions where the
// monitored groups operate, plus resort destinations that show up in
// long-haul orders.
//
//nolint:gochecknoglobals // static registry
var cityCoordinates = map[string]Point{
	"челябинск":         {55.1644, 61.4368},
	"екатеринбург":      {56.8389, 60.6057},
	"уфа":               {54.7388, 55.9721},
	"пермь":             {58.0105, 56.2502},
	"тюмень":            {57.1530, 65.5343},
	"курган":            {55.4410, 65.3411},
	"магнитогорск":      {53.4117, 58.9844},
	"златоуст":          {55.1715, 59.6504},
	"миасс":             {55.0456, 60.1084},
	"копейск":           {55.1168, 61.6178},
	"троицк":            {54.0846, 61.5587},
	"южноуральск":       {54.4473, 61.2584},
	"озерск":            {55.7631, 60.7076},
	"снежинск":          {56.0853, 60.7323},
	"касли":             {55.8901, 60.7467},
	"кыштым":            {55.7062, 60.5428},
	"сатка":             {55.0407, 59.0289},
	"аша":               {54.9912, 57.2781},
	"чебаркуль":         {54.9751, 60.3638},
	"коркино":           {54.8907, 61.4028},
	"еманжелинск":       {54.7551, 61.3178},
	"верхний уфалей":    {56.0466, 60.2329},
	"нязепетровск":      {56.0536, 59.6096},
	"усть катав":        {54.9265, 58.1598},
	"катав ивановск":    {54.7530, 58.1984},
	"юрюзань":           {54.8591, 58.4223},
	"трехгорный":        {54.8188, 58.4458},
	"бакал":             {54.9414, 58.8067},
	"карабаш":           {55.4853, 60.2389},
	"пласт":             {54.3692, 60.8143},
	"куса":              {55.3377, 59.4391},
	"москва":            {55.7558, 37.6173},
	"санкт петербург":   {59.9343, 30.3351},
	"казань":            {55.7887, 49.1221},
	"набережные челны":  {55.7167, 52.4167},
	"оренбург":          {51.7727, 55.0988},
	"самара":            {53.1959, 50.1002},
	"ижевск":            {56.8527, 53.2045},
	"стерлитамак":       {53.6241, 55.9504},
	"сибай":             {52.7205, 58.6663},
	"учалы":             {54.3065, 59.4121},
	"белорецк":          {53.9676, 58.4100},
	"аркаим":            {52.6489, 59.5719},
	"ростов на дону":    {47.2222, 39.7198},
	"минск":             {53.9006, 27.5590},
	"смоленск":          {54.7826, 32.0453},
	"тула":              {54.1961, 37.6182},
	"курск":             {51.7373, 36.1874},
	"солнечная долина":  {55.0344, 60.0878},
	"завьялиха":         {55.0267, 59.9567},
	"банное":            {53.5983, 58.6317},
	"абзаково":          {53.8000, 58.6167},
	"аджигардак":        {54.9500, 58.7833},
	"шерегеш":           {52.9333, 87.9833},
	"роза хутор":        {43.6572, 40.2971},
	"красная поляна":    {43.6833, 40.2000},
	"архыз":             {43.5500, 41.2833},
	"домбай":            {43.2903, 41.6506},
	"эльбрус":           {43.4167, 42.5000},
	"аэропорт баландино": {55.3000, 61.5000},
	"аэропорт кольцово":  {56.7500, 60.8000},
	"санаторий танып":    {55.9667, 56.8333},
}

// cityAliases maps shorthand and colloquial names to canonical registry keys.
//
//nolint:gochecknoglobals // static registry
var cityAliases = map[string]string{
	"екб":            "екатеринбург",
	"ебург":          "екатеринбург",
	"екат":           "екатеринбург",
	"чел":            "челябинск",
	"челяба":         "челябинск",
	"мск":            "москва",
	"спб":            "санкт петербург",
	"питер":          "санкт петербург",
	"мгн":            "магнитогорск",
	"магнитка":       "магнитогорск",
	"нч":             "набережные челны",
	"челны":          "набережные челны",
	"н челны":        "набережные челны",
	"ростов":         "ростов на дону",
	"баландино":      "аэропорт баландино",
	"аэропорт челябинска":   "аэропорт баландино",
	"кольцово":       "аэропорт кольцово",
	"аэропорт екатеринбурга": "аэропорт кольцово",
	"танып":          "санаторий танып",
	"геш":            "шерегеш",
	"поляна":         "красная поляна",
}

// cityDeclensions maps common Russian case forms back to the nominative
// registry key ("из Челябинска", "до Екатеринбурга").
//
//nolint:gochecknoglobals // static registry
var cityDeclensions = map[string]string{
	"челябинска":      "челябинск",
	"челябинску":      "челябинск",
	"челябинске":      "челябинск",
	"екатеринбурга":   "екатеринбург",
	"екатеринбургу":   "екатеринбург",
	"екатеринбурге":   "екатеринбург",
	"уфы":             "уфа",
	"уфу":             "уфа",
	"уфе":             "уфа",
	"перми":           "пермь",
	"тюмени":          "тюмень",
	"кургана":         "курган",
	"кургане":         "курган",
	"магнитогорска":   "магнитогорск",
	"магнитогорску":   "магнитогорск",
	"златоуста":       "златоуст",
	"златоусте":       "златоуст",
	"миасса":          "миасс",
	"миассе":          "миасс",
	"копейска":        "копейск",
	"троицка":         "троицк",
	"озерска":         "озерск",
	"снежинска":       "снежинск",
	"кыштыма":         "кыштым",
	"сатки":           "сатка",
	"аши":             "аша",
	"москвы":          "москва",
	"москву":          "москва",
	"москве":          "москва",
	"казани":          "казань",
	"казань":          "казань",
	"самары":          "самара",
	"самару":          "самара",
	"оренбурга":       "оренбург",
	"ижевска":         "ижевск",
	"шерегеша":        "шерегеш",
	"шерегеш":         "шерегеш",
}
