// Package form defines the four-step registration flow: which fields each
// step carries, how they are grouped on screen, and the per-step editing
// buffer that is merged into the session record on navigation.
package form

import (
	"github.com/carelog/carelog/internal/api"
)

// FieldKind selects the input widget and keyboard treatment for a field.
type FieldKind int

const (
	KindText FieldKind = iota
	KindNumber
	KindEmail
	KindPhone
	KindPassword
	KindMultiline
	KindToggle
	KindPhoto
)

// Field is one input of a form step.
type Field struct {
	ID    string
	Label string
	Kind  FieldKind
}

// Group is a titled cluster of fields within a step.
type Group struct {
	Title  string
	Fields []Field
}

// Step is one screen of the registration flow. Prev and Next are indexes
// into Steps(); -1 means the step is the first (back goes to the menu) or
// the last (forward saves).
type Step struct {
	Title  string
	Groups []Group
	Prev   int
	Next   int
}

// First reports whether leaving backward exits to the menu.
func (s Step) First() bool { return s.Prev < 0 }

// Last reports whether the forward action submits instead of advancing.
func (s Step) Last() bool { return s.Next < 0 }

// Fields returns the step's fields flattened in display order.
func (s Step) Fields() []Field {
	var out []Field
	for _, g := range s.Groups {
		out = append(out, g.Fields...)
	}
	return out
}

// Steps returns the registration flow definition, in order.
func Steps() []Step {
	return []Step{
		{
			Title: "Step 1: 利用者情報",
			Groups: []Group{
				{
					Title: "基本情報",
					Fields: []Field{
						{api.FieldName, "名前", KindText},
						{api.FieldAge, "年齢", KindNumber},
						{api.FieldEmail, "メールアドレス", KindEmail},
						{api.FieldPassword, "パスワード", KindPassword},
					},
				},
				{
					Title: "連絡先",
					Fields: []Field{
						{api.FieldPhone, "電話番号", KindPhone},
						{api.FieldGender, "性別", KindText},
						{api.FieldBloodType, "血液型", KindText},
						{api.FieldDoctor, "担当医師", KindText},
					},
				},
				{
					Title: "顔写真",
					Fields: []Field{
						{api.FieldPhotoPath, "顔写真", KindPhoto},
					},
				},
				{
					Title: "緊急連絡先",
					Fields: []Field{
						{api.FieldContactName, "名前", KindText},
						{api.FieldContactRelation, "続柄", KindText},
						{api.FieldContactPhone, "電話番号", KindPhone},
					},
				},
			},
			Prev: -1,
			Next: 1,
		},
		{
			Title: "Step 2: 医療情報",
			Groups: []Group{
				{
					Title: "持病情報",
					Fields: []Field{
						{api.FieldDiseaseName, "病名", KindText},
						{api.FieldSinceDate, "発症時期", KindText},
						{api.FieldDiseaseMemo, "病歴メモ", KindMultiline},
					},
				},
				{
					Title: "アレルギー情報",
					Fields: []Field{
						{api.FieldAllergyName, "アレルギー名", KindText},
						{api.FieldAllergyMemo, "アレルギーに関するメモ", KindMultiline},
					},
				},
				{
					Title: "服用薬情報",
					Fields: []Field{
						{api.FieldMedName, "薬の名前", KindText},
						{api.FieldDosage, "薬の服用量", KindText},
						{api.FieldSchedule, "服用スケジュール", KindText},
						{api.FieldMedMemo, "薬に関するメモ", KindMultiline},
					},
				},
			},
			Prev: 0,
			Next: 2,
		},
		{
			Title: "Step 3: 支援情報",
			Groups: []Group{
				{
					Title: "医療的支援",
					Fields: []Field{
						{api.FieldSupportDesc, "支援内容", KindMultiline},
						{api.FieldSupportMemo, "支援に関するメモ", KindMultiline},
						{api.FieldHasSupport, "支援が必要か", KindToggle},
					},
				},
				{
					Title: "日常的支援",
					Fields: []Field{
						{api.FieldDailyMemo, "日常的支援に関するメモ", KindMultiline},
					},
				},
			},
			Prev: 1,
			Next: 3,
		},
		{
			Title: "Step 4: 緊急時情報",
			Groups: []Group{
				{
					Title: "補助具使用",
					Fields: []Field{
						{api.FieldDeviceType, "補助具の種類", KindText},
						{api.FieldInUse, "補助具使用の有無", KindToggle},
						{api.FieldDeviceMemo, "補助具に関するメモ", KindMultiline},
					},
				},
				{
					Title: "緊急時対応",
					Fields: []Field{
						{api.FieldResponseInfo, "緊急時対応内容", KindMultiline},
						{api.FieldResponseMemo, "緊急時対応に関するメモ", KindMultiline},
					},
				},
			},
			Prev: 2,
			Next: -1,
		},
	}
}
