package categories

import "strings"

type CategoryForm struct {
	Name string `json:"name"`
}

func (f *CategoryForm) Validate() map[string]string {
	errs := map[string]string{}
	if strings.TrimSpace(f.Name) == "" {
		errs["name"] = "name is required"
	}
	return errs
}
