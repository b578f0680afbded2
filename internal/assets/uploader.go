package assets

import (
	"errors"
	"image"

	rl "github.com/gen2brain/raylib-go/raylib"
)

var ErrUpload = errors.New("texture upload failed")

// Uploader moves decoded images to the GPU. Implementations are called only
// from the render thread.
type Uploader interface {
	UploadTexture(img image.Image) (rl.Texture2D, error)
	UploadCubemap(strip image.Image) (rl.Texture2D, error)
	Unload(tex rl.Texture2D)
}

// GPUUploader uploads through raylib. It requires an initialized window.
type GPUUploader struct{}

func (GPUUploader) UploadTexture(img image.Image) (rl.Texture2D, error) {
	im := rl.NewImageFromImage(img)
	defer rl.UnloadImage(im)

	tex := rl.LoadTextureFromImage(im)
	if !rl.IsTextureValid(tex) {
		return rl.Texture2D{}, ErrUpload
	}
	rl.GenTextureMipmaps(&tex)
	rl.SetTextureFilter(tex, rl.FilterTrilinear)
	return tex, nil
}

func (GPUUploader) UploadCubemap(strip image.Image) (rl.Texture2D, error) {
	im := rl.NewImageFromImage(strip)
	defer rl.UnloadImage(im)

	tex := rl.LoadTextureCubemap(im, rl.CubemapLayoutLineVertical)
	if !rl.IsTextureValid(tex) {
		return rl.Texture2D{}, ErrUpload
	}
	rl.SetTextureFilter(tex, rl.FilterBilinear)
	return tex, nil
}

func (GPUUploader) Unload(tex rl.Texture2D) {
	if tex.ID != 0 {
		rl.UnloadTexture(tex)
	}
}
