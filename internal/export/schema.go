package export

import (
	"encoding/json"
	"reflect"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/John-Robertt/acmensa/internal/domain"
)

// DaySchema 推导导出文件（DayData）的 JSON schema。
//
// 约束：
// - MealType/SideType 序列化为变体名，schema 中以 enum 约束
// - AllergenList 是去重后的字符串数组（uniqueItems）
func DaySchema() (*jsonschema.Schema, error) {
	mealNames := make([]any, 0, len(domain.MealTypes()))
	for _, mt := range domain.MealTypes() {
		mealNames = append(mealNames, mt.String())
	}
	sideNames := make([]any, 0, len(domain.SideTypes()))
	for _, st := range domain.SideTypes() {
		sideNames = append(sideNames, st.String())
	}

	s, err := jsonschema.For[domain.DayData](&jsonschema.ForOptions{
		TypeSchemas: map[reflect.Type]*jsonschema.Schema{
			reflect.TypeFor[domain.MealType](): {
				Type:        "string",
				Description: "dish category",
				Enum:        mealNames,
			},
			reflect.TypeFor[domain.SideType](): {
				Type:        "string",
				Description: "side-dish slot category",
				Enum:        sideNames,
			},
			reflect.TypeFor[domain.AllergenList](): {
				Type:        "array",
				Description: "allergen codes, sorted and de-duplicated",
				Items:       &jsonschema.Schema{Type: "string"},
				UniqueItems: true,
			},
		},
	})
	if err != nil {
		return nil, err
	}
	s.Title = "DayData"
	s.Description = "menu of a single opening day"
	return s, nil
}

// DaySchemaJSON 返回缩进后的 schema 文本（末尾带换行）。
func DaySchemaJSON() ([]byte, error) {
	s, err := DaySchema()
	if err != nil {
		return nil, err
	}
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}
