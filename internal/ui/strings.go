package ui

import "strings"

// messages holds every UI label in both languages, jp first.
var messages = map[string][2]string{
	"role.faculty":   {"教員", "Faculty"},
	"role.student":   {"学生", "Student"},
	"role.shared":    {"みんなの共有", "Shared"},
	"role.request":   {"リクエスト", "Requests"},
	"view.list":      {"一覧", "List"},
	"view.charts":    {"グラフ", "Charts"},
	"view.logs":      {"ログ", "Logs"},
	"likes.global":   {"総いいね", "Total likes"},
	"likes.tab":      {"このタブ", "This tab"},
	"loading":        {"読み込み中...", "Loading..."},
	"offline":        {"オフライン", "Offline"},
	"empty":          {"該当するプロンプトがありません", "No prompts match"},
	"search":         {"キーワード検索...", "Search keywords..."},
	"category.all":   {"すべてのカテゴリ", "All categories"},
	"tags":           {"タグ", "Tags"},
	"sorted":         {"いいね順", "By likes"},
	"description":    {"説明", "Description"},
	"prompt":         {"プロンプト", "Prompt"},
	"request":        {"リクエスト内容", "Request"},
	"position":       {"役職・立場", "Position"},
	"target":         {"対象者", "Target"},
	"model":          {"AIモデル", "AI Model"},
	"copied":         {"コピーしました", "Copied"},
	"copy.failed":    {"コピーできませんでした", "Copy failed"},
	"liked":          {"いいねしました", "Liked"},
	"unliked":        {"いいねを取り消しました", "Like removed"},
	"refreshed":      {"いいね数を更新しました", "Likes refreshed"},
	"no.logs":        {"ログはまだありません", "No log lines yet"},
	"help.title":     {"キーボード操作", "Keyboard Shortcuts"},
	"help.views":     {"表示", "Views"},
	"help.nav":       {"移動", "Navigation"},
	"help.entry":     {"プロンプト", "Prompt"},
	"help.filters":   {"絞り込み", "Filters"},
	"help.general":   {"全般", "General"},
	"updated":        {"更新", "Updated"},
	"never":          {"未取得", "never"},
	"unconfigured":   {"コミュニティ未設定", "Community not configured"},
	"footer.list":    {"space いいね  / 検索  c カテゴリ  t/x タグ  s 並び替え  ? ヘルプ", "space like  / search  c category  t/x tags  s sort  ? help"},
	"footer.charts":  {"tab 次の表示  esc 一覧  ? ヘルプ", "tab next view  esc list  ? help"},
	"footer.logs":    {"j/k スクロール  g/G 先頭/末尾  esc 一覧", "j/k scroll  g/G top/bottom  esc list"},
	"footer.search":  {"enter 確定  esc 取消", "enter apply  esc cancel"},
}

// tr returns the label for key in lang, or key itself when unknown.
func tr(lang, key string) string {
	m, ok := messages[key]
	if !ok {
		return key
	}
	if lang == "en" {
		return m[1]
	}
	return m[0]
}

// truncate shortens a string to the given rune limit, adding ellipsis if needed.
func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	return string(runes[:limit-3]) + "..."
}

// oneLine collapses newlines so a value fits a single table row.
func oneLine(value string) string {
	return strings.Join(strings.Fields(value), " ")
}
