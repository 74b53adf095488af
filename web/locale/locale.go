// Package locale translates the page titles and flash messages of the web UI.
package locale

import (
	"io/fs"
	"strings"

	"github.com/techinsight/blog/logger"

	"github.com/gin-gonic/gin"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"
)

var (
	i18nBundle   *i18n.Bundle
	defaultLang  string
	LocalizerWeb *i18n.Localizer
)

// InitLocalizer loads every catalogue under translation/ and makes lang the
// default language of the UI.
func InitLocalizer(i18nFS fs.FS, lang string) error {
	bundle := i18n.NewBundle(language.MustParse("en-US"))
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	if err := parseTranslationFiles(i18nFS, bundle); err != nil {
		return err
	}

	i18nBundle = bundle
	defaultLang = lang
	LocalizerWeb = i18n.NewLocalizer(bundle, lang)
	return nil
}

func createTemplateData(params []string, seperator ...string) map[string]any {
	sep := "=="
	if len(seperator) > 0 {
		sep = seperator[0]
	}

	templateData := make(map[string]any)
	for _, param := range params {
		parts := strings.SplitN(param, sep, 2)
		if len(parts) == 2 {
			templateData[parts[0]] = parts[1]
		}
	}
	return templateData
}

// I18n localizes key with the default localizer. Params are "name==value" pairs.
func I18n(key string, params ...string) string {
	return Localize(LocalizerWeb, key, params...)
}

// Localize localizes key with localizer, falling back to the key itself.
func Localize(localizer *i18n.Localizer, key string, params ...string) string {
	if localizer == nil {
		return key
	}
	msg, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: createTemplateData(params),
	})
	if err != nil {
		logger.Errorf("Failed to localize message: %v", err)
		return key
	}
	return msg
}

// LocalizerMiddleware picks the language of the request from the lang cookie
// or the Accept-Language header and stores a localizer in the context.
func LocalizerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if i18nBundle == nil {
			c.Next()
			return
		}
		var lang string
		if cookie, err := c.Request.Cookie("lang"); err == nil {
			lang = cookie.Value
		} else {
			lang = c.GetHeader("Accept-Language")
		}

		c.Set("localizer", i18n.NewLocalizer(i18nBundle, lang, defaultLang))
		c.Next()
	}
}

func parseTranslationFiles(i18nFS fs.FS, bundle *i18n.Bundle) error {
	return fs.WalkDir(i18nFS, "translation",
		func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}

			data, err := fs.ReadFile(i18nFS, path)
			if err != nil {
				return err
			}

			_, err = bundle.ParseMessageFileBytes(data, path)
			return err
		})
}
