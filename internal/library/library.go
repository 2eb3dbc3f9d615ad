// Package library はフォーム・テンプレートで共用する変換ユーティリティを提供する。
package library

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// formDateLayout はフォーム入力の日付フォーマット（dd/mm/yyyy）。
const formDateLayout = "02/01/2006"

// ParseCurrency はpt-BR形式の金額文字列（"1.234,56"）をfloat64に変換する。
// 通貨記号や空白は無視する。パース不能な場合は0を返す（旧システムの挙動を維持）。
func ParseCurrency(value string) float64 {
	s := strings.ReplaceAll(value, ".", "")
	s = strings.ReplaceAll(s, ",", ".")

	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}

	f, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0
	}
	return f
}

// FormatCurrency はfloat64の金額をpt-BR形式（"1.234,56"）に整形する。
func FormatCurrency(value float64) string {
	s := strconv.FormatFloat(value, 'f', 2, 64)

	parts := strings.SplitN(s, ".", 2)
	intPart, fracPart := parts[0], parts[1]

	negative := strings.HasPrefix(intPart, "-")
	intPart = strings.TrimPrefix(intPart, "-")

	var groups []string
	for len(intPart) > 3 {
		groups = append([]string{intPart[len(intPart)-3:]}, groups...)
		intPart = intPart[:len(intPart)-3]
	}
	groups = append([]string{intPart}, groups...)

	result := strings.Join(groups, ".") + "," + fracPart
	if negative {
		result = "-" + result
	}
	return result
}

var slugInvalid = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify はタイトルからURLスラグを生成する。
// 小文字化し、アクセント付きラテン文字を基底文字に置き換え、
// 英数字以外の連続をハイフン1つにまとめる。
func Slugify(title string) string {
	s := strings.ToLower(title)

	replacer := strings.NewReplacer(
		"á", "a", "à", "a", "â", "a", "ã", "a", "ä", "a",
		"é", "e", "è", "e", "ê", "e", "ë", "e",
		"í", "i", "ì", "i", "î", "i", "ï", "i",
		"ó", "o", "ò", "o", "ô", "o", "õ", "o", "ö", "o",
		"ú", "u", "ù", "u", "û", "u", "ü", "u",
		"ç", "c", "ñ", "n",
	)
	s = replacer.Replace(s)

	s = slugInvalid.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// ParseFormDate はフォーム入力の日付文字列（dd/mm/yyyy）をパースする。
func ParseFormDate(value string) (time.Time, error) {
	return time.Parse(formDateLayout, strings.TrimSpace(value))
}

// FormatFormDate は日付をフォーム入力フォーマット（dd/mm/yyyy）に整形する。
// ゼロ値は空文字列を返す。
func FormatFormDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(formDateLayout)
}

// EpochToDate はエポック秒を"dd/mm/yyyy HH:MM:SS"形式に整形する。
// 0以下の値は空文字列を返す。
func EpochToDate(epoch int64) string {
	if epoch <= 0 {
		return ""
	}
	return time.Unix(epoch, 0).Format("02/01/2006 15:04:05")
}
