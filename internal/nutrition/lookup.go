package nutrition

// Entry is one row of the static lookup table. Values are per the stated
// unit, typically 100g for ingredients and one serving for dishes.
type Entry struct {
	Name     string
	Calories float64
	Protein  float64
	Fat      float64
	Carbs    float64
	Unit     string
	Category string
}

// Table is the internal food dictionary. Entries are kept in a slice, not a
// map, so scoring ties resolve deterministically to the first entry in
// declaration order.
type Table struct {
	entries []Entry
}

// NewTable builds a table from explicit entries. Used by tests; production
// code uses DefaultTable.
func NewTable(entries []Entry) *Table {
	return &Table{entries: entries}
}

// Entries returns the backing slice in declaration order.
func (t *Table) Entries() []Entry {
	return t.entries
}

// Record converts a table entry into a FoodRecord with internal provenance.
func (e Entry) Record() FoodRecord {
	return FoodRecord{
		Name:       e.Name,
		Calories:   e.Calories,
		Protein:    e.Protein,
		Fat:        e.Fat,
		Carbs:      e.Carbs,
		Unit:       e.Unit,
		Category:   e.Category,
		Source:     SourceInternal,
		Confidence: 0.95,
	}
}

var defaultTable = NewTable([]Entry{
	// 肉類
	{Name: "鶏胸肉", Calories: 165, Protein: 25, Fat: 3, Carbs: 0, Unit: "100g", Category: "肉類"},
	{Name: "鶏もも肉", Calories: 204, Protein: 16, Fat: 14, Carbs: 0, Unit: "100g", Category: "肉類"},
	{Name: "鶏ささみ", Calories: 105, Protein: 23, Fat: 0.8, Carbs: 0, Unit: "100g", Category: "肉類"},
	{Name: "鶏ステーキ", Calories: 320, Protein: 28, Fat: 20, Carbs: 4, Unit: "1枚", Category: "肉類"},
	{Name: "鶏肉", Calories: 200, Protein: 17, Fat: 14, Carbs: 0, Unit: "100g", Category: "肉類"},
	{Name: "豚ロース", Calories: 263, Protein: 19, Fat: 19, Carbs: 0.2, Unit: "100g", Category: "肉類"},
	{Name: "豚肉", Calories: 236, Protein: 18, Fat: 17, Carbs: 0.2, Unit: "100g", Category: "肉類"},
	{Name: "牛肉", Calories: 250, Protein: 19, Fat: 18, Carbs: 0.3, Unit: "100g", Category: "肉類"},
	{Name: "ベーコン", Calories: 405, Protein: 13, Fat: 39, Carbs: 0.3, Unit: "100g", Category: "肉類"},
	{Name: "ウインナー", Calories: 321, Protein: 13, Fat: 28, Carbs: 3, Unit: "100g", Category: "肉類"},

	// 魚介類
	{Name: "鮭", Calories: 133, Protein: 22, Fat: 4.1, Carbs: 0.1, Unit: "100g", Category: "魚介類"},
	{Name: "さば", Calories: 247, Protein: 21, Fat: 17, Carbs: 0.3, Unit: "100g", Category: "魚介類"},
	{Name: "まぐろ", Calories: 125, Protein: 26, Fat: 1.4, Carbs: 0.1, Unit: "100g", Category: "魚介類"},
	{Name: "えび", Calories: 82, Protein: 18, Fat: 0.6, Carbs: 0.3, Unit: "100g", Category: "魚介類"},
	{Name: "さんま", Calories: 318, Protein: 18, Fat: 26, Carbs: 0.1, Unit: "100g", Category: "魚介類"},

	// 主食
	{Name: "ご飯", Calories: 168, Protein: 2.5, Fat: 0.3, Carbs: 37, Unit: "100g", Category: "主食"},
	{Name: "白米", Calories: 252, Protein: 3.8, Fat: 0.5, Carbs: 56, Unit: "1膳(150g)", Category: "主食"},
	{Name: "玄米", Calories: 165, Protein: 2.8, Fat: 1, Carbs: 36, Unit: "100g", Category: "主食"},
	{Name: "食パン", Calories: 264, Protein: 9.3, Fat: 4.4, Carbs: 47, Unit: "100g", Category: "主食"},
	{Name: "うどん", Calories: 270, Protein: 6.8, Fat: 1, Carbs: 56, Unit: "1玉", Category: "主食"},
	{Name: "そば", Calories: 296, Protein: 12, Fat: 2, Carbs: 57, Unit: "1玉", Category: "主食"},
	{Name: "パスタ", Calories: 379, Protein: 13, Fat: 2.2, Carbs: 73, Unit: "100g(乾)", Category: "主食"},
	{Name: "もち", Calories: 223, Protein: 4, Fat: 0.6, Carbs: 50, Unit: "100g", Category: "主食"},

	// 料理
	{Name: "カレーライス", Calories: 862, Protein: 21, Fat: 27, Carbs: 130, Unit: "1皿", Category: "料理"},
	{Name: "ラーメン", Calories: 443, Protein: 21, Fat: 6, Carbs: 70, Unit: "1杯", Category: "料理"},
	{Name: "チャーハン", Calories: 754, Protein: 18, Fat: 26, Carbs: 105, Unit: "1皿", Category: "料理"},
	{Name: "牛丼", Calories: 771, Protein: 25, Fat: 25, Carbs: 108, Unit: "1杯", Category: "料理"},
	{Name: "親子丼", Calories: 684, Protein: 30, Fat: 15, Carbs: 103, Unit: "1杯", Category: "料理"},
	{Name: "唐揚げ", Calories: 290, Protein: 17, Fat: 18, Carbs: 13, Unit: "100g", Category: "料理"},
	{Name: "ハンバーグ", Calories: 437, Protein: 22, Fat: 27, Carbs: 21, Unit: "1個", Category: "料理"},
	{Name: "餃子", Calories: 245, Protein: 9, Fat: 12, Carbs: 25, Unit: "5個", Category: "料理"},
	{Name: "寿司", Calories: 588, Protein: 27, Fat: 6, Carbs: 100, Unit: "10貫", Category: "料理"},
	{Name: "天ぷら", Calories: 520, Protein: 15, Fat: 30, Carbs: 45, Unit: "1人前", Category: "料理"},
	{Name: "味噌汁", Calories: 55, Protein: 3.5, Fat: 1.8, Carbs: 6, Unit: "1杯", Category: "料理"},
	{Name: "オムライス", Calories: 680, Protein: 20, Fat: 25, Carbs: 90, Unit: "1皿", Category: "料理"},
	{Name: "サラダ", Calories: 80, Protein: 2, Fat: 4, Carbs: 9, Unit: "1皿", Category: "料理"},
	{Name: "焼き魚", Calories: 180, Protein: 22, Fat: 9, Carbs: 0.5, Unit: "1切れ", Category: "料理"},
	{Name: "肉じゃが", Calories: 320, Protein: 11, Fat: 14, Carbs: 38, Unit: "1人前", Category: "料理"},
	{Name: "ピザ", Calories: 724, Protein: 30, Fat: 26, Carbs: 90, Unit: "1枚(M)", Category: "料理"},
	{Name: "サンドイッチ", Calories: 350, Protein: 12, Fat: 16, Carbs: 40, Unit: "1個", Category: "料理"},

	// 卵・豆・乳製品
	{Name: "卵", Calories: 151, Protein: 12, Fat: 10, Carbs: 0.3, Unit: "100g", Category: "卵・豆・乳製品"},
	{Name: "納豆", Calories: 200, Protein: 17, Fat: 10, Carbs: 12, Unit: "100g", Category: "卵・豆・乳製品"},
	{Name: "豆腐", Calories: 56, Protein: 4.9, Fat: 3, Carbs: 2, Unit: "100g", Category: "卵・豆・乳製品"},
	{Name: "牛乳", Calories: 67, Protein: 3.3, Fat: 3.8, Carbs: 4.8, Unit: "100ml", Category: "卵・豆・乳製品"},
	{Name: "ヨーグルト", Calories: 62, Protein: 3.6, Fat: 3, Carbs: 4.9, Unit: "100g", Category: "卵・豆・乳製品"},
	{Name: "チーズ", Calories: 339, Protein: 23, Fat: 26, Carbs: 1.3, Unit: "100g", Category: "卵・豆・乳製品"},

	// 野菜・果物
	{Name: "キャベツ", Calories: 23, Protein: 1.3, Fat: 0.2, Carbs: 5.2, Unit: "100g", Category: "野菜・果物"},
	{Name: "トマト", Calories: 19, Protein: 0.7, Fat: 0.1, Carbs: 4.7, Unit: "100g", Category: "野菜・果物"},
	{Name: "ブロッコリー", Calories: 33, Protein: 4.3, Fat: 0.5, Carbs: 5.2, Unit: "100g", Category: "野菜・果物"},
	{Name: "じゃがいも", Calories: 76, Protein: 1.6, Fat: 0.1, Carbs: 17.6, Unit: "100g", Category: "野菜・果物"},
	{Name: "バナナ", Calories: 86, Protein: 1.1, Fat: 0.2, Carbs: 22.5, Unit: "100g", Category: "野菜・果物"},
	{Name: "りんご", Calories: 54, Protein: 0.2, Fat: 0.1, Carbs: 14.6, Unit: "100g", Category: "野菜・果物"},
	{Name: "みかん", Calories: 46, Protein: 0.7, Fat: 0.1, Carbs: 12, Unit: "100g", Category: "野菜・果物"},
	{Name: "アボカド", Calories: 187, Protein: 2.5, Fat: 18.7, Carbs: 6.2, Unit: "100g", Category: "野菜・果物"},

	// 飲料・菓子
	{Name: "コーヒー", Calories: 4, Protein: 0.2, Fat: 0, Carbs: 0.7, Unit: "100ml", Category: "飲料・菓子"},
	{Name: "コーラ", Calories: 46, Protein: 0, Fat: 0, Carbs: 11.4, Unit: "100ml", Category: "飲料・菓子"},
	{Name: "ビール", Calories: 40, Protein: 0.3, Fat: 0, Carbs: 3.1, Unit: "100ml", Category: "飲料・菓子"},
	{Name: "オレンジジュース", Calories: 42, Protein: 0.7, Fat: 0.1, Carbs: 10.7, Unit: "100ml", Category: "飲料・菓子"},
	{Name: "チョコレート", Calories: 558, Protein: 6.9, Fat: 34, Carbs: 55.8, Unit: "100g", Category: "飲料・菓子"},
	{Name: "ポテトチップス", Calories: 554, Protein: 4.7, Fat: 35, Carbs: 54.7, Unit: "100g", Category: "飲料・菓子"},
	{Name: "アイスクリーム", Calories: 180, Protein: 3.9, Fat: 8, Carbs: 23.2, Unit: "100g", Category: "飲料・菓子"},
	{Name: "ショートケーキ", Calories: 344, Protein: 4.6, Fat: 23, Carbs: 29, Unit: "1個", Category: "飲料・菓子"},
	{Name: "プロテイン", Calories: 110, Protein: 21, Fat: 1.5, Carbs: 3, Unit: "1杯(30g)", Category: "飲料・菓子"},
})

// DefaultTable returns the built-in food dictionary.
func DefaultTable() *Table {
	return defaultTable
}
