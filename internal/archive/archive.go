// Package archive exports game move logs to Parquet files.
package archive

import (
	"fmt"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/reader"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/hailam/chessrelay/internal/board"
	"github.com/hailam/chessrelay/internal/storage"
)

// MoveRow is one half-move of a game as it is laid out in the file.
type MoveRow struct {
	GameID      string `parquet:"name=game_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	Ply         int32  `parquet:"name=ply, type=INT32"`
	From        string `parquet:"name=from, type=BYTE_ARRAY, convertedtype=UTF8"`
	To          string `parquet:"name=to, type=BYTE_ARRAY, convertedtype=UTF8"`
	Promotion   string `parquet:"name=promotion, type=BYTE_ARRAY, convertedtype=UTF8"`
	Outcome     string `parquet:"name=outcome, type=BYTE_ARRAY, convertedtype=UTF8"`
	Fingerprint int64  `parquet:"name=fingerprint, type=INT64"`
	FEN         string `parquet:"name=fen, type=BYTE_ARRAY, convertedtype=UTF8"`
}

// Rows replays a recorded game and returns one row per accepted move, each
// carrying the position reached after it.
func Rows(rec storage.GameRecord) ([]MoveRow, error) {
	start := rec.StartFEN
	if start == "" {
		start = board.StartFEN
	}
	b, err := board.ParseFEN(start)
	if err != nil {
		return nil, fmt.Errorf("game %s: %w", rec.ID, err)
	}

	rows := make([]MoveRow, 0, len(rec.Moves))
	for i, tok := range rec.Moves {
		from, to, promo, err := board.ParseMove(tok)
		if err != nil {
			return nil, fmt.Errorf("game %s ply %d: %w", rec.ID, i+1, err)
		}
		out, err := b.ApplyMove(from, to, promo)
		if out == board.Rejected {
			return nil, fmt.Errorf("game %s ply %d %s: %w", rec.ID, i+1, tok, err)
		}

		row := MoveRow{
			GameID:      rec.ID,
			Ply:         int32(i + 1),
			From:        from.String(),
			To:          to.String(),
			Outcome:     out.String(),
			Fingerprint: int64(b.Fingerprint()),
			FEN:         b.FEN(),
		}
		if promo != board.NoPieceType {
			row.Promotion = promo.String()
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// WriteMoves writes every row received on rows to a Snappy-compressed Parquet
// file at path. The producer closes rows; on error the rest is drained.
func WriteMoves(path string, rows <-chan MoveRow, parallel int64) (err error) {
	defer func() {
		if err != nil {
			for range rows {
			}
		}
	}()

	fileWriter, err := local.NewLocalFileWriter(path)
	if err != nil {
		return err
	}
	closed := false
	defer func() {
		if !closed {
			fileWriter.Close()
		}
	}()

	parquetWriter, err := writer.NewParquetWriter(fileWriter, new(MoveRow), parallel)
	if err != nil {
		return err
	}
	parquetWriter.CompressionType = parquet.CompressionCodec_SNAPPY

	for row := range rows {
		if err := parquetWriter.Write(row); err != nil {
			return err
		}
	}
	if err := parquetWriter.WriteStop(); err != nil {
		return err
	}
	closed = true
	return fileWriter.Close()
}

// ExportGames writes the move logs of recs to path.
func ExportGames(path string, recs []storage.GameRecord, parallel int64) error {
	all := make([][]MoveRow, 0, len(recs))
	for _, rec := range recs {
		rows, err := Rows(rec)
		if err != nil {
			return err
		}
		all = append(all, rows)
	}

	ch := make(chan MoveRow)
	go func() {
		defer close(ch)
		for _, rows := range all {
			for _, row := range rows {
				ch <- row
			}
		}
	}()
	return WriteMoves(path, ch, parallel)
}

// ReadMoves loads every row of a file written by WriteMoves.
func ReadMoves(path string, parallel int64) ([]MoveRow, error) {
	fileReader, err := local.NewLocalFileReader(path)
	if err != nil {
		return nil, err
	}
	defer fileReader.Close()

	parquetReader, err := reader.NewParquetReader(fileReader, new(MoveRow), parallel)
	if err != nil {
		return nil, err
	}
	defer parquetReader.ReadStop()

	num := int(parquetReader.GetNumRows())
	rows := make([]MoveRow, 0, num)
	batchSize := 1024
	for offset := 0; offset < num; offset += batchSize {
		remain := num - offset
		if remain < batchSize {
			batchSize = remain
		}
		batch := make([]MoveRow, batchSize)
		if err := parquetReader.Read(&batch); err != nil {
			return nil, err
		}
		rows = append(rows, batch...)
	}
	return rows, nil
}
