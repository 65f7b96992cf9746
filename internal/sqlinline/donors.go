package sqlinline

const donorColumns = `id, name, email, phone, donor_type, tier, total_given_cents, campaigns,
       notes, assigned_to, address, tax_id, created_at, updated_at, last_donation_at`

const QInsertDonor = `--sql 771964f8-9290-4354-b9e8-293060b4b0e3
insert into donors (id, name, email, phone, donor_type, tier, total_given_cents, campaigns,
                    notes, assigned_to, address, tax_id, created_at, updated_at, last_donation_at)
values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
`

const QSelectDonorByID = `--sql 9ed901b2-e411-4bca-9f40-a634ef3ba3dd
select ` + donorColumns + `
from donors
where id = $1;
`

const QSelectDonorByEmail = `--sql b003c33d-137e-49c0-a4ba-b977f0944a36
select ` + donorColumns + `
from donors
where email = $1;
`

const QSelectDonorForUpdate = `--sql 6600b4ad-86f6-4a9d-ab03-367aea1ca29b
select ` + donorColumns + `
from donors
where id = $1
for update;
`

const QListDonors = `--sql 1cfc3f6a-677d-4721-ab11-4e28efe2f1cb
select ` + donorColumns + `
from donors
where ($1 = '' or tier = $1)
  and ($2 = '' or donor_type = $2)
  and ($3 = '' or assigned_to = $3)
order by name, id;
`

const QUpdateDonorTotals = `--sql 8caff508-e6fc-43ae-914a-fbdd7c3b8d5a
update donors
set tier = $2,
    total_given_cents = $3,
    campaigns = $4,
    updated_at = $5,
    last_donation_at = $6
where id = $1;
`
