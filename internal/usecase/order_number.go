package usecase

import (
	"fmt"
	"math/rand/v2"
	"time"
)

const orderNumberPrefix = "MIST"

// 注文番号の発番。乱数を使うためinterfaceにしてテストで差し替える。
type OrderNumberGenerator interface {
	Generate(now time.Time) string
}

type RandomOrderNumberGenerator struct{}

// Generate は MIST-YYYYMMDD-NNNN 形式の注文番号を返す。日付はUTC。
// 番号単体では一意を保証しない。衝突はDBの一意制約＋再発番で吸収する。
func (g *RandomOrderNumberGenerator) Generate(now time.Time) string {
	date := now.UTC().Format("20060102")
	n := 1000 + rand.IntN(9000)
	return fmt.Sprintf("%s-%s-%04d", orderNumberPrefix, date, n)
}
