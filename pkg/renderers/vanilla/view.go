package vanilla

import (
	"strings"

	"github.com/goliatone/go-authform/pkg/model"
	"github.com/goliatone/go-authform/pkg/render"
	"github.com/goliatone/go-authform/pkg/strength"
)

type pageView struct {
	Title           string      `json:"title"`
	Lang            string      `json:"lang"`
	ActiveTab       string      `json:"activeTab"`
	Tabs            []tabView   `json:"tabs"`
	Forms           []formView  `json:"forms"`
	SocialProviders []string    `json:"socialProviders,omitempty"`
	Toasts          []toastView `json:"toasts,omitempty"`
	Stylesheet      string      `json:"stylesheet"`
	Script          string      `json:"script"`
	ServiceWorker   string      `json:"serviceWorker,omitempty"`
	APIBase         string      `json:"apiBase"`
	Theme           themeView   `json:"theme"`
}

type tabView struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Active bool   `json:"active"`
}

type formView struct {
	ID           string               `json:"id"`
	Title        string               `json:"title"`
	Action       string               `json:"action"`
	SubmitLabel  string               `json:"submitLabel"`
	LoadingLabel string               `json:"loadingLabel"`
	Active       bool                 `json:"active"`
	Loading      bool                 `json:"loading"`
	Hidden       []render.HiddenField `json:"hidden,omitempty"`
	FormErrors   []string             `json:"formErrors,omitempty"`
	Fields       []fieldView          `json:"fields"`
	Links        []model.Link         `json:"links,omitempty"`
}

type fieldView struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Kind         string        `json:"kind"`
	Label        string        `json:"label"`
	Type         string        `json:"type"`
	Value        string        `json:"value,omitempty"`
	Placeholder  string        `json:"placeholder,omitempty"`
	Autocomplete string        `json:"autocomplete,omitempty"`
	Icon         string        `json:"icon,omitempty"`
	Required     bool          `json:"required,omitempty"`
	StateClass   string        `json:"stateClass,omitempty"`
	Invalid      bool          `json:"invalid,omitempty"`
	Message      string        `json:"message,omitempty"`
	Toggle       bool          `json:"toggle,omitempty"`
	Visible      bool          `json:"visible,omitempty"`
	ToggleLabel  string        `json:"toggleLabel,omitempty"`
	Strength     *strengthView `json:"strength,omitempty"`
}

type strengthView struct {
	Visible bool   `json:"visible"`
	Level   string `json:"level"`
	Score   int    `json:"score"`
	Percent int    `json:"percent"`
	Label   string `json:"label"`
}

type toastView struct {
	ID      string `json:"id"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func (r *Renderer) buildView(page model.Page, opts render.RenderOptions) pageView {
	active := opts.ActiveTab
	if _, ok := page.Form(active); !ok {
		active = page.InitialTab()
	}

	lang := strings.TrimSpace(opts.Locale)
	if lang == "" {
		lang = r.lang
	}

	view := pageView{
		Title:           page.Title,
		Lang:            lang,
		ActiveTab:       active,
		SocialProviders: page.SocialProviders,
		Stylesheet:      themeAsset(opts.Theme, "vanilla.stylesheet", joinURL(r.assetBase, StylesheetName)),
		Script:          themeAsset(opts.Theme, "vanilla.script", joinURL(r.assetBase, RuntimeScriptName)),
		ServiceWorker:   r.serviceWorker,
		APIBase:         r.apiBase,
		Theme:           buildThemeView(opts.Theme),
	}

	for _, form := range page.Forms {
		isActive := form.ID == active
		view.Tabs = append(view.Tabs, tabView{ID: form.ID, Title: form.Title, Active: isActive})
		view.Forms = append(view.Forms, r.buildForm(form, isActive, opts))
	}

	for _, item := range opts.Toasts {
		view.Toasts = append(view.Toasts, toastView{
			ID:      item.ID,
			Kind:    string(item.Kind),
			Message: item.Message,
		})
	}
	return view
}

func (r *Renderer) buildForm(form model.FormModel, active bool, opts render.RenderOptions) formView {
	loading := opts.IsLoading(form.ID)
	loadingLabel := form.LoadingLabel
	if loadingLabel == "" {
		loadingLabel = form.SubmitLabel
	}

	out := formView{
		ID:           form.ID,
		Title:        form.Title,
		Action:       r.apiBase + "/forms/" + form.ID + "/submit",
		SubmitLabel:  form.SubmitLabel,
		LoadingLabel: loadingLabel,
		Active:       active,
		Loading:      loading,
		Hidden:       render.FormHiddenFields(form.ID, opts.Hidden),
		FormErrors:   render.MergeFormErrors(opts.FormErrors[form.ID]),
		Links:        form.Links,
	}

	indicator, showIndicator := opts.StrengthFor(form.ID)
	for _, field := range form.Fields {
		fv := fieldView{
			ID:           field.ID,
			Name:         field.InputName(),
			Kind:         string(field.Kind),
			Label:        field.Label,
			Type:         field.InputType(),
			Placeholder:  field.Placeholder,
			Autocomplete: field.Autocomplete,
			Icon:         field.Icon,
			Required:     field.Required,
			StateClass:   stateClass(opts.FieldState(form.ID, field.ID)),
			Message:      opts.Message(form.ID, field.ID),
			Toggle:       field.Toggle,
		}
		fv.Invalid = fv.StateClass == "is-invalid"
		if !field.Secret() {
			fv.Value = opts.Value(form.ID, field.ID)
		}
		if field.Toggle {
			fv.Visible = opts.IsVisible(form.ID, field.ID)
			if fv.Visible {
				fv.Type = "text"
				fv.ToggleLabel = "Hide " + strings.ToLower(field.Label)
			} else {
				fv.ToggleLabel = "Show " + strings.ToLower(field.Label)
			}
		}
		if field.StrengthMeter {
			fv.Strength = buildStrength(indicator, showIndicator)
		}
		out.Fields = append(out.Fields, fv)
	}
	return out
}

func buildStrength(result strength.Result, visible bool) *strengthView {
	if !visible {
		return &strengthView{Level: string(strength.LevelWeak)}
	}
	return &strengthView{
		Visible: true,
		Level:   string(result.Level),
		Score:   result.Score,
		Percent: strengthPercent(result.Score),
		Label:   strengthLabel(result.Level),
	}
}
