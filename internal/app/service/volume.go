package service

import "github.com/jose-valero/music-panel-bot/internal/domain"

// stepVolume calcula el próximo volumen. ok=false significa que ya estamos en el límite
// y no hay que tocar nada.
func stepVolume(cur, max int, up bool) (next int, ok bool) {
	if up {
		switch {
		case cur == max:
			return cur, false
		case cur > max:
			return max, true
		case cur+domain.VolumeStep > max:
			return max, true
		default:
			return cur + domain.VolumeStep, true
		}
	}

	switch {
	case cur <= domain.VolumeMin:
		return cur, false
	case cur <= domain.VolumeStep:
		return domain.VolumeMin, true
	default:
		return cur - domain.VolumeStep, true
	}
}
