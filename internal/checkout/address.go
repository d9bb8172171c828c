package checkout

import "strings"

// 画面で扱う住所（フォーム入力の形）
type AddressForm struct {
	FullName   string
	Phone      string
	PostalCode string
	Prefecture string
	City       string
	Line1      string
	Line2      string
}

// 保存用の住所レコード。
// 任意項目は省略せず、必ず明示的な空文字で埋める
type AddressRecord struct {
	FirstName  string
	LastName   string
	Phone      string
	PostalCode string
	Prefecture string
	City       string
	Line1      string
	Line2      string
}

// 表示用の住所を保存用の形に変換する。
// 氏名は最初の空白で姓と名に分ける（空白が無ければLastNameは空文字）。
// ここではバリデーションはしない（任意項目のデフォルト埋めのみ）
func SanitizeAddressForStorage(f AddressForm) AddressRecord {
	first, last := splitFullName(f.FullName)

	return AddressRecord{
		FirstName:  first,
		LastName:   last,
		Phone:      strings.TrimSpace(f.Phone),
		PostalCode: strings.TrimSpace(f.PostalCode),
		Prefecture: strings.TrimSpace(f.Prefecture),
		City:       strings.TrimSpace(f.City),
		Line1:      strings.TrimSpace(f.Line1),
		Line2:      strings.TrimSpace(f.Line2),
	}
}

// SanitizeAddressForStorageの逆。氏名を結合して表示用に戻す
func FormatAddressForDisplay(r AddressRecord) AddressForm {
	return AddressForm{
		FullName:   joinName(r.FirstName, r.LastName),
		Phone:      r.Phone,
		PostalCode: r.PostalCode,
		Prefecture: r.Prefecture,
		City:       r.City,
		Line1:      r.Line1,
		Line2:      r.Line2,
	}
}

func splitFullName(full string) (first string, last string) {
	full = strings.TrimSpace(full)
	if full == "" {
		return "", ""
	}

	parts := strings.SplitN(full, " ", 2)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], strings.TrimSpace(parts[1])
}

func joinName(first string, last string) string {
	if first == "" {
		return last
	}
	if last == "" {
		return first
	}
	return first + " " + last
}
