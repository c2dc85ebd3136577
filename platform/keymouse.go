// platform/keymouse.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package platform

import (
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/go-gl/glfw/v3.3/glfw"
)

const (
	MouseButtonPrimary imgui.MouseButton = iota
	MouseButtonSecondary
	MouseButtonTertiary
	MouseButtonCount
)

var glfwButtonIndexByID = map[glfw.MouseButton]imgui.MouseButton{
	glfw.MouseButton1: MouseButtonPrimary,
	glfw.MouseButton2: MouseButtonSecondary,
	glfw.MouseButton3: MouseButtonTertiary,
}

var glfwButtonIDByIndex = [MouseButtonCount]glfw.MouseButton{
	MouseButtonPrimary:   glfw.MouseButton1,
	MouseButtonSecondary: glfw.MouseButton2,
	MouseButtonTertiary:  glfw.MouseButton3,
}

// Keys whose name doesn't depend on the keyboard layout.
var glfwNamedKeys = map[glfw.Key]imgui.Key{
	glfw.KeyTab:          imgui.KeyTab,
	glfw.KeyLeft:         imgui.KeyLeftArrow,
	glfw.KeyRight:        imgui.KeyRightArrow,
	glfw.KeyUp:           imgui.KeyUpArrow,
	glfw.KeyDown:         imgui.KeyDownArrow,
	glfw.KeyPageUp:       imgui.KeyPageUp,
	glfw.KeyPageDown:     imgui.KeyPageDown,
	glfw.KeyHome:         imgui.KeyHome,
	glfw.KeyEnd:          imgui.KeyEnd,
	glfw.KeyInsert:       imgui.KeyInsert,
	glfw.KeyDelete:       imgui.KeyDelete,
	glfw.KeyBackspace:    imgui.KeyBackspace,
	glfw.KeySpace:        imgui.KeySpace,
	glfw.KeyEnter:        imgui.KeyEnter,
	glfw.KeyEscape:       imgui.KeyEscape,
	glfw.KeyApostrophe:   imgui.KeyApostrophe,
	glfw.KeyComma:        imgui.KeyComma,
	glfw.KeyMinus:        imgui.KeyMinus,
	glfw.KeyPeriod:       imgui.KeyPeriod,
	glfw.KeySlash:        imgui.KeySlash,
	glfw.KeySemicolon:    imgui.KeySemicolon,
	glfw.KeyEqual:        imgui.KeyEqual,
	glfw.KeyLeftBracket:  imgui.KeyLeftBracket,
	glfw.KeyBackslash:    imgui.KeyBackslash,
	glfw.KeyRightBracket: imgui.KeyRightBracket,
	glfw.KeyGraveAccent:  imgui.KeyGraveAccent,
	glfw.KeyCapsLock:     imgui.KeyCapsLock,
	glfw.KeyScrollLock:   imgui.KeyScrollLock,
	glfw.KeyNumLock:      imgui.KeyNumLock,
	glfw.KeyPrintScreen:  imgui.KeyPrintScreen,
	glfw.KeyPause:        imgui.KeyPause,
	glfw.KeyKPDecimal:    imgui.KeyKeypadDecimal,
	glfw.KeyKPDivide:     imgui.KeyKeypadDivide,
	glfw.KeyKPMultiply:   imgui.KeyKeypadMultiply,
	glfw.KeyKPSubtract:   imgui.KeyKeypadSubtract,
	glfw.KeyKPAdd:        imgui.KeyKeypadAdd,
	glfw.KeyKPEnter:      imgui.KeyKeypadEnter,
	glfw.KeyKPEqual:      imgui.KeyKeypadEqual,
	glfw.KeyLeftShift:    imgui.KeyLeftShift,
	glfw.KeyLeftControl:  imgui.KeyLeftCtrl,
	glfw.KeyLeftAlt:      imgui.KeyLeftAlt,
	glfw.KeyLeftSuper:    imgui.KeyLeftSuper,
	glfw.KeyRightShift:   imgui.KeyRightShift,
	glfw.KeyRightControl: imgui.KeyRightCtrl,
	glfw.KeyRightAlt:     imgui.KeyRightAlt,
	glfw.KeyRightSuper:   imgui.KeyRightSuper,
	glfw.KeyMenu:         imgui.KeyMenu,
}

// glfwKeyToImguiKey maps a GLFW key to imgui's key enum. Digits,
// letters, function keys, and keypad digits are contiguous in both.
func glfwKeyToImguiKey(key glfw.Key) imgui.Key {
	switch {
	case key >= glfw.Key0 && key <= glfw.Key9:
		return imgui.Key0 + imgui.Key(key-glfw.Key0)
	case key >= glfw.KeyA && key <= glfw.KeyZ:
		return imgui.KeyA + imgui.Key(key-glfw.KeyA)
	case key >= glfw.KeyF1 && key <= glfw.KeyF24:
		return imgui.KeyF1 + imgui.Key(key-glfw.KeyF1)
	case key >= glfw.KeyKP0 && key <= glfw.KeyKP9:
		return imgui.KeyKeypad0 + imgui.Key(key-glfw.KeyKP0)
	}
	if k, ok := glfwNamedKeys[key]; ok {
		return k
	}
	return imgui.KeyNone
}

var glfwPunctuationKeys = map[byte]glfw.Key{
	'`':  glfw.KeyGraveAccent,
	'-':  glfw.KeyMinus,
	'=':  glfw.KeyEqual,
	'[':  glfw.KeyLeftBracket,
	']':  glfw.KeyRightBracket,
	'\\': glfw.KeyBackslash,
	',':  glfw.KeyComma,
	';':  glfw.KeySemicolon,
	'\'': glfw.KeyApostrophe,
	'.':  glfw.KeyPeriod,
	'/':  glfw.KeySlash,
}

// translateKeyName returns the key that produces the single-character
// key name reported for the current layout, or key itself if the name
// isn't one we know about.
func translateKeyName(key glfw.Key, name string) glfw.Key {
	if key >= glfw.KeyKP0 && key <= glfw.KeyKPEqual || len(name) != 1 {
		return key
	}
	switch c := name[0]; {
	case c >= '0' && c <= '9':
		return glfw.Key0 + glfw.Key(c-'0')
	case c >= 'A' && c <= 'Z':
		return glfw.KeyA + glfw.Key(c-'A')
	case c >= 'a' && c <= 'z':
		return glfw.KeyA + glfw.Key(c-'a')
	default:
		if k, ok := glfwPunctuationKeys[c]; ok {
			return k
		}
		return key
	}
}
