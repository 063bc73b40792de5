package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

const (
	tagNotFile   = "notfile"
	tagSQLiteDir = "sqlitedir"
)

var messages = map[string]string{
	tagNotFile:   "{0} must be a directory or a path that does not exist yet",
	tagSQLiteDir: "{0} must be inside an existing directory",
}

func newValidator() (*validator.Validate, ut.Translator, error) {
	validate := validator.New()

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, nil, fmt.Errorf("failed to register default translations: %w", err)
	}

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := validate.RegisterValidation(tagNotFile, isNotRegularFile); err != nil {
		return nil, nil, fmt.Errorf("failed to register %s validation: %w", tagNotFile, err)
	}
	validate.RegisterStructValidation(validateSQLitePath, Config{})

	for tag, message := range messages {
		if err := validate.RegisterTranslation(tag, trans, func(ut ut.Translator) error {
			return ut.Add(tag, message, true)
		}, func(ut ut.Translator, fe validator.FieldError) string {
			t, _ := ut.T(fe.Tag(), strings.TrimPrefix(fe.Namespace(), "Config."))
			return t
		}); err != nil {
			return nil, nil, fmt.Errorf("failed to register %s translation: %w", tag, err)
		}
	}

	return validate, trans, nil
}

// isNotRegularFile accepts a missing path, which is created on first save, or an existing directory.
func isNotRegularFile(fl validator.FieldLevel) bool {
	path := fl.Field().String()
	if path == "" {
		return true
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return true
	}
	if err != nil {
		return false
	}
	return info.IsDir()
}

// validateSQLitePath requires the directory of the sqlite database file to exist
// when the sqlite driver is selected. In-memory and URI paths are left to the driver.
func validateSQLitePath(sl validator.StructLevel) {
	cfg := sl.Current().Interface().(Config)
	if cfg.Storage.Driver != "sqlite" {
		return
	}
	path := cfg.Database.Path
	if path == "" || path == ":memory:" || strings.HasPrefix(path, "file:") {
		return
	}
	info, err := os.Stat(filepath.Dir(path))
	if err == nil && info.IsDir() {
		return
	}
	sl.ReportError(path, "database.path", "Path", tagSQLiteDir, "")
}
