package sqlinline

const donationColumns = `id, donor_id, amount_cents, campaign, donation_type, method, acknowledged,
       tax_receipt_sent, received_at, notes, reference_number, external_charge_id`

const QInsertDonation = `--sql 3f9c531c-383a-417d-914f-30ef744fb202
insert into donations (id, donor_id, amount_cents, campaign, donation_type, method, acknowledged,
                       tax_receipt_sent, received_at, notes, reference_number, external_charge_id)
values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
`

const QSelectDonationByID = `--sql 8cf3a3b1-6c3a-47e2-8325-798fb13c32e9
select ` + donationColumns + `
from donations
where id = $1;
`

const QListDonations = `--sql c8aeec31-62ac-4d53-9448-5bdca3e6a043
select ` + donationColumns + `
from donations
where ($1 = '' or donor_id = $1)
  and ($2 = '' or campaign = $2)
  and ($3 = '' or donation_type = $3)
order by received_at desc, id;
`

const QAcknowledgeDonation = `--sql 59f22105-2c5b-45c8-9e5f-c91c22bff595
update donations
set acknowledged = $2
where id = $1;
`

const QMarkReceiptSent = `--sql a3d118d1-6c07-4c83-b497-9ed2d2dbdcf5
update donations
set acknowledged = $2,
    tax_receipt_sent = $2
where id = $1;
`
