package ui

// ColorReset clears all formatting.
func ColorReset() string { return GetCurrentTheme().Reset }

// ColorRed is used for failures.
func ColorRed() string { return GetCurrentTheme().Error }

// ColorGreen is used for successes.
func ColorGreen() string { return GetCurrentTheme().Success }

// ColorYellow is used for warnings and durations.
func ColorYellow() string { return GetCurrentTheme().Warning }

// ColorBlue is used for names.
func ColorBlue() string { return GetCurrentTheme().Primary }

// ColorMagenta is used for request arguments.
func ColorMagenta() string { return GetCurrentTheme().Info }

// ColorCyan is used for environment details.
func ColorCyan() string { return GetCurrentTheme().Secondary }

func ColorBold() string      { return GetCurrentTheme().Bold }
func ColorUnderline() string { return GetCurrentTheme().Underline }
