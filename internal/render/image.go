package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"os"

	"github.com/mattn/go-runewidth"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// ImageOptions 位图渲染选项
type ImageOptions struct {
	// FontSize 字号（pt，72 DPI），0 取默认 14
	FontSize float64

	// MarginX / MarginY 边距（像素），0 取默认 10 / 5
	MarginX int
	MarginY int
}

func (o *ImageOptions) applyDefaults() {
	if o.FontSize <= 0 {
		o.FontSize = 14
	}
	if o.MarginX <= 0 {
		o.MarginX = 10
	}
	if o.MarginY <= 0 {
		o.MarginY = 5
	}
}

// loadFace 加载等宽字体；失败时静默回退到内置点阵字体
func loadFace(size float64) font.Face {
	f, err := opentype.Parse(gomono.TTF)
	if err != nil {
		return basicfont.Face7x13
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return basicfont.Face7x13
	}
	return face
}

// RenderImage 把一组文本行画成左对齐、固定行高的白底位图。
// 不做折行、分页和多栏布局。
func RenderImage(lines []string, opts ImageOptions) (image.Image, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("no lines to render")
	}
	opts.applyDefaults()

	face := loadFace(opts.FontSize)
	metrics := face.Metrics()
	lineHeight := metrics.Height.Ceil() + 4

	// 等宽字体下按显示单元格数量显示宽度：盒绘字符与 emoji 也能得到
	// 稳定的列宽（MeasureString 对字体缺字形的行会低估宽度）
	cellAdvance := font.MeasureString(face, "0").Ceil()
	maxWidth := 0
	for _, line := range lines {
		if w := runewidth.StringWidth(line) * cellAdvance; w > maxWidth {
			maxWidth = w
		}
	}

	imgWidth := maxWidth + 2*opts.MarginX
	imgHeight := lineHeight*len(lines) + 2*opts.MarginY

	img := image.NewRGBA(image.Rect(0, 0, imgWidth, imgHeight))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.Black),
		Face: face,
	}

	y := opts.MarginY + metrics.Ascent.Ceil()
	for _, line := range lines {
		drawer.Dot = fixed.P(opts.MarginX, y)
		drawer.DrawString(line)
		y += lineHeight
	}

	return img, nil
}

// SaveJPEG 把位图写入文件（单次非原子写入）
func SaveJPEG(img image.Image, path string, quality int) error {
	if quality <= 0 {
		quality = 90
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create image file: %w", err)
	}
	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: quality}); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode jpeg: %w", err)
	}
	return f.Close()
}
